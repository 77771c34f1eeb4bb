package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port/mock"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type botServer struct {
	mu    sync.Mutex
	calls map[string][]map[string]string
}

func newBotServer(t *testing.T) (*botServer, *httptest.Server) {
	t.Helper()
	b := &botServer{calls: map[string][]map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		require.NoError(t, r.ParseForm())
		params := map[string]string{}
		for k := range r.PostForm {
			params[k] = r.PostForm.Get(k)
		}
		b.mu.Lock()
		b.calls[method] = append(b.calls[method], params)
		b.mu.Unlock()

		switch method {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Bot","username":"CashHealer_bot"}}`))
		case "sendMessage", "sendDocument":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":42,"type":"private"},"date":0}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true,"description":"done"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *botServer) last(method string) map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	calls := b.calls[method]
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1]
}

func newTestClient(t *testing.T, secret string) (*Client, *botServer) {
	t.Helper()
	b, srv := newBotServer(t)
	c, err := newClient(&config.Telegram{Token: "123:abc", WebhookSecret: secret}, srv.URL+"/bot%s/%s", zap.NewNop())
	require.NoError(t, err)
	return c, b
}

func TestClient_SendMessage(t *testing.T) {
	c, b := newTestClient(t, "")

	id, err := c.SendMessage(context.Background(), domain.OutgoingMessage{
		ChatID:    42,
		Text:      "<b>hi</b>",
		ParseMode: domain.ParseModeHTML,
		Buttons: [][]domain.Button{{
			domain.CallbackButton("Оплатил", "payment_1_p"),
			domain.LinkButton("Оплатить", "https://pay.example.com"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	sent := b.last("sendMessage")
	assert.Equal(t, "42", sent["chat_id"])
	assert.Equal(t, "HTML", sent["parse_mode"])
	assert.JSONEq(t, `{"inline_keyboard":[[
		{"text":"Оплатил","callback_data":"payment_1_p"},
		{"text":"Оплатить","url":"https://pay.example.com"}]]}`, sent["reply_markup"])
}

func TestClient_SendMessageWebApp(t *testing.T) {
	c, b := newTestClient(t, "")

	_, err := c.SendMessage(context.Background(), domain.OutgoingMessage{
		ChatID:  42,
		Text:    "calc",
		Buttons: [][]domain.Button{{domain.WebAppButton("Открыть", "https://bot.example.com/calc")}},
	})
	require.NoError(t, err)

	var markup webAppKeyboard
	require.NoError(t, json.Unmarshal([]byte(b.last("sendMessage")["reply_markup"]), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	require.NotNil(t, markup.InlineKeyboard[0][0].WebApp)
	assert.Equal(t, "https://bot.example.com/calc", markup.InlineKeyboard[0][0].WebApp.URL)
}

func TestClient_ForwardDocument(t *testing.T) {
	c, b := newTestClient(t, "")

	_, err := c.ForwardDocument(context.Background(), 42, "file-1", "Ваш отчет")
	require.NoError(t, err)

	sent := b.last("sendDocument")
	assert.Equal(t, "file-1", sent["document"])
	assert.Equal(t, "Ваш отчет", sent["caption"])
}

func TestClient_SetWebhook(t *testing.T) {
	c, b := newTestClient(t, "s3cret")

	require.NoError(t, c.SetWebhook("https://bot.example.com/api/webhooks/telegram/action"))

	sent := b.last("setWebhook")
	assert.Equal(t, "https://bot.example.com/api/webhooks/telegram/action", sent["url"])
	assert.Equal(t, "s3cret", sent["secret_token"])
}

func TestClient_DispatchAnswersCallbacks(t *testing.T) {
	c, b := newTestClient(t, "")
	mockCtrl := gomock.NewController(t)
	scheduler := mock.NewMockEventScheduler(mockCtrl)

	scheduler.EXPECT().ScheduleEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.Event) error {
			assert.Equal(t, domain.EventCallback, ev.Kind)
			assert.Equal(t, "order_detox", ev.CallbackData)
			return nil
		})

	Dispatch(context.Background(), tgbotapi.Update{
		UpdateID: 1,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: 42},
			Data: "order_detox",
		},
	}, c, scheduler, zap.NewNop())

	assert.Equal(t, "cb-1", b.last("answerCallbackQuery")["callback_query_id"])

	// ignored updates are neither answered nor queued
	Dispatch(context.Background(), tgbotapi.Update{UpdateID: 2}, c, scheduler, zap.NewNop())
}
