package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/tasks/internal/config"
	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService hashes passwords with bcrypt and issues HS256 session
// tokens. Every token carries a random jti so two tokens minted in the same
// second never collide.
type CredentialService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	hashCost  int
	now       func() time.Time
}

func NewCredentialService(cfg *config.Config) ports.CredentialService {
	return &CredentialService{
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		hashCost:  cfg.HashCost,
		now:       time.Now,
	}
}

func (s *CredentialService) HashPassword(password string) (string, error) {
	if s.hashCost < bcrypt.MinCost || s.hashCost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: cost %d out of range", domain.ErrHashing, s.hashCost)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	return string(hash), nil
}

func (s *CredentialService) VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", domain.ErrHashing, err)
}

func (s *CredentialService) IssueToken() (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", fmt.Errorf("%w: empty secret", domain.ErrSigning)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}
	return signed, nil
}

func (s *CredentialService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}

	return nil
}
