package telegram

import (
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NormalizeUpdate maps a Bot API update to an Event. Updates the bot does not
// act on (edits, channel posts, stickers) report false.
func NormalizeUpdate(u tgbotapi.Update) (domain.Event, bool) {
	if cb := u.CallbackQuery; cb != nil {
		if cb.From == nil {
			return domain.Event{}, false
		}
		ev := withUser(domain.Event{
			Kind:         domain.EventCallback,
			ChatID:       cb.From.ID,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}, cb.From)
		if cb.Message != nil && cb.Message.Chat != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return domain.Event{}, false
	}
	ev := withUser(domain.Event{ChatID: m.Chat.ID, MessageID: m.MessageID}, m.From)
	switch {
	case m.Document != nil:
		ev.Kind = domain.EventDocument
		ev.FileID = m.Document.FileID
		ev.FileName = m.Document.FileName
		ev.FileSize = m.Document.FileSize
		ev.Caption = m.Caption
	case m.Text != "":
		ev.Kind = domain.EventMessage
		ev.Text = m.Text
	default:
		return domain.Event{}, false
	}
	return ev, true
}

func withUser(ev domain.Event, from *tgbotapi.User) domain.Event {
	ev.UserID = from.ID
	ev.UserName = from.UserName
	ev.FirstName = from.FirstName
	ev.LastName = from.LastName
	return ev
}
