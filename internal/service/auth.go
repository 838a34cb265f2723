package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vibemusic/internal/config"
	"vibemusic/internal/model"
)

// AuthService issues HS256 access tokens. Tokens carry the user id in the
// "user_id" claim, which the auth middleware reads back.
type AuthService struct {
	config *config.Config
	now    func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg, now: time.Now}
}

// IssueToken builds the register/login response for user.
func (s *AuthService) IssueToken(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &model.AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   s.config.AccessTokenMaxAge,
	}, nil
}

func (s *AuthService) generateAccessToken(userID int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
