package gateway

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session — токен доступа и идентификатор пользователя.
type Session struct {
	Token  string
	UserID string
}

// ExpiresAt читает claim exp без проверки подписи: подпись проверяет сервер.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Valid сообщает, есть ли токен и не истёк ли он к моменту now.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	exp, ok := s.ExpiresAt()
	if !ok {
		return true
	}
	return now.Before(exp)
}
