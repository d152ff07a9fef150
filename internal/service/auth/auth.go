package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhishekjatav/dukaan/internal/config"
	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// login failures do not leak which part was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the token payload carried by operator sessions.
type Claims struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Service resolves operators from the Users table and issues HS256 tokens.
type Service struct {
	users     *tables.UserTable
	secretKey []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewService wires the auth service.
func NewService(users *tables.UserTable, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:     users,
		secretKey: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		logger:    logger,
	}
}

// Login verifies the credentials and returns a signed token plus the resolved
// user.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			s.logger.Debug("login for unknown user", zap.String("username", username))
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("load user %s: %w", username, err)
	}

	if !verifyPassword(user.Password, password) {
		s.logger.Debug("password mismatch", zap.String("username", username))
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token for %s: %w", username, err)
	}
	return token, user, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if _, err := models.ParseRole(claims.Role); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "dukaan",
			Subject:   user.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// verifyPassword handles both bcrypt hashes and the plaintext passwords older
// spreadsheets still hold.
func verifyPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
