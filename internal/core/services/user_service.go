package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
)

// UserService drives a user between logged out (no token) and logged in
// (token stored on the row). Only the most recent login holds a valid
// session; concurrent logins race and the last write wins. Writes are
// detached from request cancellation so a client disconnect cannot abort
// them halfway.
type UserService struct {
	repo     ports.UserRepository
	creds    ports.CredentialService
	validate *validator.Validate
	log      *slog.Logger
}

func NewUserService(repo ports.UserRepository, creds ports.CredentialService, log *slog.Logger) ports.UserService {
	return &UserService{
		repo:     repo,
		creds:    creds,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validateRegistration(input); err != nil {
		return nil, "", err
	}

	existing, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to look up user: %w", domain.ErrPersistence, err)
	}
	if existing != nil {
		return nil, "", domain.ErrUsernameTaken
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.creds.IssueToken()
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Token:        &token,
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: failed to create user: %w", domain.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to look up user: %w", domain.ErrPersistence, err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}

	ok, err := s.creds.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		s.log.DebugContext(ctx, "login rejected", "user_id", user.ID)
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken()
	if err != nil {
		return nil, "", err
	}

	user.Token = &token
	if err := s.repo.Update(context.WithoutCancel(ctx), user); err != nil {
		return nil, "", fmt.Errorf("%w: failed to store session: %w", domain.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

func (s *UserService) Logout(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}

	user.Token = nil
	if err := s.repo.Update(context.WithoutCancel(ctx), user); err != nil {
		return fmt.Errorf("%w: failed to clear session: %w", domain.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// maxPasswordBytes is bcrypt's input limit. The validator's max tag counts
// runes, so multibyte passwords need a separate byte check.
const maxPasswordBytes = 72

func (s *UserService) validateRegistration(input ports.RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		if len(input.Password) > maxPasswordBytes {
			return fmt.Errorf("%w: password must have at most %d bytes", domain.ErrValidation, maxPasswordBytes)
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	default:
		return field + " is invalid"
	}
}
