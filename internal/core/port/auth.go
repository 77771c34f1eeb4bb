package port

type TokenPayload struct {
	TelegramID string
	OrderID    uint64
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(payload TokenPayload) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
