package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"go.uber.org/zap"
)

// PasetoToken issues v4.local tokens for calculator links.
type PasetoToken struct {
	parser *paseto.Parser
	key    paseto.V4SymmetricKey
	ttl    time.Duration
	now    func() time.Time
}

// New loads the key from cfg. Without a configured key a random one is used,
// so links issued before a restart stop verifying.
func New(cfg *config.Calculator, log *zap.Logger) (*PasetoToken, error) {
	key := paseto.NewV4SymmetricKey()
	if cfg.TokenKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("calculator token key: %w", err)
		}
	} else {
		log.Warn("CALCULATOR_TOKEN_KEY is not set, using a random key")
	}

	parser := paseto.NewParser()
	return &PasetoToken{
		parser: &parser,
		key:    key,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

func (p *PasetoToken) CreateToken(payload port.TokenPayload) (string, error) {
	token := paseto.NewToken()
	now := p.now()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(p.ttl))

	if err := token.Set("payload", payload); err != nil {
		return "", domain.ErrTokenCreation
	}
	return token.V4Encrypt(p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	if token == "" {
		return nil, domain.ErrEmptyToken
	}
	parsedToken, err := p.parser.ParseV4Local(p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	payload := port.TokenPayload{}
	if err = parsedToken.Get("payload", &payload); err != nil {
		return nil, domain.ErrInvalidToken
	}
	if payload.TelegramID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
