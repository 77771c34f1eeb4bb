package telegram

import (
	"testing"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeUpdate(t *testing.T) {
	from := &tgbotapi.User{ID: 42, UserName: "anna", FirstName: "Anna", LastName: "K"}
	chat := &tgbotapi.Chat{ID: 4242}

	tests := []struct {
		name   string
		update tgbotapi.Update
		want   domain.Event
		ok     bool
	}{
		{
			name:   "text message",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 5, From: from, Chat: chat, Text: "/start"}},
			want: domain.Event{Kind: domain.EventMessage, ChatID: 4242, UserID: 42, UserName: "anna",
				FirstName: "Anna", LastName: "K", MessageID: 5, Text: "/start"},
			ok: true,
		},
		{
			name: "document",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 6, From: from, Chat: chat,
				Caption:  "/send 12",
				Document: &tgbotapi.Document{FileID: "f1", FileName: "report.pdf", FileSize: 1024}}},
			want: domain.Event{Kind: domain.EventDocument, ChatID: 4242, UserID: 42, UserName: "anna",
				FirstName: "Anna", LastName: "K", MessageID: 6,
				FileID: "f1", FileName: "report.pdf", FileSize: 1024, Caption: "/send 12"},
			ok: true,
		},
		{
			name: "callback with message",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: from, Data: "order_modeling",
				Message: &tgbotapi.Message{MessageID: 9, Chat: chat}}},
			want: domain.Event{Kind: domain.EventCallback, ChatID: 4242, UserID: 42, UserName: "anna",
				FirstName: "Anna", LastName: "K", MessageID: 9, CallbackID: "cb", CallbackData: "order_modeling"},
			ok: true,
		},
		{
			name:   "callback without message uses sender chat",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: from, Data: "x"}},
			want: domain.Event{Kind: domain.EventCallback, ChatID: 42, UserID: 42, UserName: "anna",
				FirstName: "Anna", LastName: "K", CallbackID: "cb", CallbackData: "x"},
			ok: true,
		},
		{
			name:   "sticker",
			update: tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: chat}},
		},
		{
			name:   "channel post",
			update: tgbotapi.Update{ChannelPost: &tgbotapi.Message{Chat: chat, Text: "hi"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeUpdate(tt.update)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInlineKeyboardDegradesWebApp(t *testing.T) {
	kb := inlineKeyboard([][]domain.Button{{domain.WebAppButton("calc", "https://c")}})
	if assert.Len(t, kb.InlineKeyboard, 1) && assert.Len(t, kb.InlineKeyboard[0], 1) {
		assert.Equal(t, "https://c", *kb.InlineKeyboard[0][0].URL)
	}
}
