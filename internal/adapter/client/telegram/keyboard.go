package telegram

import (
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type webAppInfo struct {
	URL string `json:"url"`
}

// button mirrors the Bot API inline button including web_app, which the
// library's InlineKeyboardButton lacks.
type button struct {
	Text         string      `json:"text"`
	URL          string      `json:"url,omitempty"`
	CallbackData string      `json:"callback_data,omitempty"`
	WebApp       *webAppInfo `json:"web_app,omitempty"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]button `json:"inline_keyboard"`
}

func replyMarkup(rows [][]domain.Button) any {
	if !hasWebApp(rows) {
		return inlineKeyboard(rows)
	}

	kb := webAppKeyboard{InlineKeyboard: make([][]button, 0, len(rows))}
	for _, row := range rows {
		out := make([]button, 0, len(row))
		for _, b := range row {
			tb := button{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData}
			if b.WebAppURL != "" {
				tb.WebApp = &webAppInfo{URL: b.WebAppURL}
			}
			out = append(out, tb)
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, out)
	}
	return kb
}

// inlineKeyboard builds the library keyboard. Web app buttons degrade to links.
func inlineKeyboard(rows [][]domain.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			switch {
			case b.CallbackData != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
			case b.URL != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			case b.WebAppURL != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.WebAppURL))
			}
		}
		out = append(out, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func hasWebApp(rows [][]domain.Button) bool {
	for _, row := range rows {
		for _, b := range row {
			if b.WebAppURL != "" {
				return true
			}
		}
	}
	return false
}
