package openai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	historyThreads = 512
	historyTTL     = 24 * time.Hour
	// historyDepth counts messages kept per thread, system prompt excluded.
	historyDepth = 10

	replyMaxTokens    = 600
	analysisMaxTokens = 1000
)

var ErrNotConfigured = errors.New("openai api key not configured")

// Agent answers chat messages and analyses budgets with OpenAI chat completions.
type Agent struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	history *expirable.LRU[string, []openai.ChatCompletionMessage]
}

func NewAgent(cfg *config.OpenAI, log *zap.Logger) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Agent{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  log,
		history: expirable.NewLRU[string, []openai.ChatCompletionMessage](historyThreads, nil, historyTTL),
	}, nil
}

// Reply continues the conversation kept for threadID.
func (a *Agent) Reply(ctx context.Context, threadID string, prompt string) (string, error) {
	a.mu.Lock()
	past, _ := a.history.Get(threadID)
	a.mu.Unlock()

	msgs := make([]openai.ChatCompletionMessage, 0, len(past)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	msgs = append(msgs, past...)
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt}
	msgs = append(msgs, user)

	answer, err := a.complete(ctx, msgs, replyMaxTokens)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.history.Add(threadID, extendHistory(past, user,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer}))
	a.mu.Unlock()

	a.logger.Debug("Agent replied", zap.String("thread", threadID), zap.Int("length", len(answer)))
	return answer, nil
}

func (a *Agent) AnalyzeBudget(ctx context.Context, snapshot domain.BudgetSnapshot) (string, error) {
	a.logger.Info("Analyzing budget",
		zap.Int64("balance", snapshot.CurrentBalance),
		zap.Int64("expenses", snapshot.TotalExpenses),
		zap.Int("days", snapshot.DaysUntilIncome))

	analysis, err := a.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: budgetPrompt(snapshot)},
	}, analysisMaxTokens)
	if err != nil {
		return "", err
	}
	a.logger.Info("Analysis generated", zap.Int("length", len(analysis)))
	return analysis, nil
}

func (a *Agent) complete(ctx context.Context, msgs []openai.ChatCompletionMessage, maxTokens int) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		Messages:  msgs,
		MaxTokens: maxTokens,
	})
	if err != nil {
		a.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrAgent, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from OpenAI", domain.ErrAgent)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// extendHistory never writes into past, which may be shared with a
// concurrent reply on the same thread.
func extendHistory(past []openai.ChatCompletionMessage,
	msgs ...openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	return trimHistory(append(slices.Clone(past), msgs...))
}

func trimHistory(msgs []openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	if len(msgs) <= historyDepth {
		return msgs
	}
	return append([]openai.ChatCompletionMessage(nil), msgs[len(msgs)-historyDepth:]...)
}
