package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vibemusic/internal/model"
)

const connectTokenIssuer = "vibemusic-telegram-connect"

// ConnectTokenSigner issues and verifies the tokens a user sends to the bot
// to bind their Telegram chat. It uses its own key, separate from access tokens.
type ConnectTokenSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewConnectTokenSigner(key string, ttl time.Duration) *ConnectTokenSigner {
	return &ConnectTokenSigner{key: []byte(key), ttl: ttl, now: time.Now}
}

// TTL is how long an issued token stays valid.
func (s *ConnectTokenSigner) TTL() time.Duration {
	return s.ttl
}

func (s *ConnectTokenSigner) Sign(userID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    connectTokenIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify returns the user id carried by token.
func (s *ConnectTokenSigner) Verify(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(connectTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, model.ErrConnectTokenExpired
		}
		return 0, model.ErrConnectTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, model.ErrConnectTokenInvalid
	}
	return userID, nil
}
