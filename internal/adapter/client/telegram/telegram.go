package telegram

import (
	"context"
	"fmt"

	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client is the Telegram Bot API messenger.
type Client struct {
	logger *zap.Logger
	bot    *tgbotapi.BotAPI
	secret string
}

func NewClient(cfg *config.Telegram, log *zap.Logger) (*Client, error) {
	return newClient(cfg, tgbotapi.APIEndpoint, log)
}

func newClient(cfg *config.Telegram, endpoint string, log *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bot init: %v", domain.ErrMessenger, err)
	}
	bot.Debug = cfg.Debug
	log.Info("Telegram bot authorized", zap.String("bot", bot.Self.UserName))

	return &Client{logger: log, bot: bot, secret: cfg.WebhookSecret}, nil
}

func (c *Client) SendMessage(_ context.Context, msg domain.OutgoingMessage) (int, error) {
	m := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	m.ParseMode = msg.ParseMode
	if len(msg.Buttons) > 0 {
		m.ReplyMarkup = replyMarkup(msg.Buttons)
	}

	sent, err := c.bot.Send(m)
	if err != nil {
		return 0, fmt.Errorf("%w: send to %d: %v", domain.ErrMessenger, msg.ChatID, err)
	}
	return sent.MessageID, nil
}

func (c *Client) ForwardDocument(_ context.Context, chatID int64, fileID string, caption string) (int, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption

	sent, err := c.bot.Send(doc)
	if err != nil {
		return 0, fmt.Errorf("%w: document to %d: %v", domain.ErrMessenger, chatID, err)
	}
	return sent.MessageID, nil
}

func (c *Client) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("%w: answer callback: %v", domain.ErrMessenger, err)
	}
	return nil
}

func (c *Client) EditMessage(_ context.Context, chatID int64, messageID int, text string,
	buttons [][]domain.Button) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if len(buttons) > 0 {
		kb := inlineKeyboard(buttons)
		edit.ReplyMarkup = &kb
	}
	if _, err := c.bot.Request(edit); err != nil {
		return fmt.Errorf("%w: edit %d/%d: %v", domain.ErrMessenger, chatID, messageID, err)
	}
	return nil
}

// SetWebhook registers url as the update endpoint. The library's webhook
// config predates secret tokens, so the request is built by hand.
func (c *Client) SetWebhook(url string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", c.secret)
	if err := params.AddInterface("allowed_updates", []string{"message", "callback_query"}); err != nil {
		return err
	}

	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("%w: set webhook: %v", domain.ErrMessenger, err)
	}
	c.logger.Info("Webhook registered", zap.String("url", url), zap.String("result", resp.Description))
	return nil
}

func (c *Client) DeleteWebhook() error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("%w: delete webhook: %v", domain.ErrMessenger, err)
	}
	return nil
}

// Poll reads updates with long polling until ctx is done.
func (c *Client) Poll(ctx context.Context, scheduler port.EventScheduler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := c.bot.GetUpdatesChan(u)
	defer c.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			Dispatch(ctx, update, c, scheduler, c.logger)
		}
	}
}

// Dispatch acknowledges callbacks and queues the normalised event.
func Dispatch(ctx context.Context, update tgbotapi.Update, messenger port.Messenger,
	scheduler port.EventScheduler, log *zap.Logger) {
	ev, ok := NormalizeUpdate(update)
	if !ok {
		log.Debug("Skipped update", zap.Int("update", update.UpdateID))
		return
	}
	if ev.Kind == domain.EventCallback {
		if err := messenger.AnswerCallback(ctx, ev.CallbackID); err != nil {
			log.Warn("Callback not answered", zap.Error(err))
		}
	}
	if err := scheduler.ScheduleEvent(ctx, ev); err != nil {
		log.Error("Event not scheduled", zap.Int("update", update.UpdateID), zap.Error(err))
	}
}
