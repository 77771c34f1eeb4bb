package domain

import (
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID         uint64
	TelegramID string
	Username   string
	FirstName  string
	LastName   string
	IsAdmin    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChatID parses the Telegram id the user is reachable at.
func (u *User) ChatID() (int64, error) {
	id, err := strconv.ParseInt(u.TelegramID, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrBadClientChat
	}
	return id, nil
}

// DisplayName returns the best human readable handle for the user.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.TelegramID
}
