package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/T-manDon/alx-files-manager/internal/models"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/repository"
	"github.com/T-manDon/alx-files-manager/internal/security"
)

var (
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")
	ErrAlreadyExists   = errors.New("email already registered")
	ErrUnauthorized    = errors.New("unauthorized")
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Enqueuer hands jobs to the queue. Enqueue failures never fail the request
// that triggered them.
type Enqueuer interface {
	Enqueue(ctx context.Context, job queue.Job) error
}

type AuthService struct {
	users  UserStore
	tokens *security.TokenStore
	jobs   Enqueuer
	log    zerolog.Logger
}

func NewAuthService(users UserStore, tokens *security.TokenStore, jobs Enqueuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		jobs:   jobs,
		log:    log,
	}
}

// Register creates a user and enqueues a welcome job. The response does not
// depend on the enqueue outcome.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return models.User{}, ErrMissingEmail
	}
	if password == "" {
		return models.User{}, ErrMissingPassword
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.Create(ctx, models.User{Email: email, PasswordHash: hash})
	if err != nil {
		return models.User{}, err
	}

	if s.jobs != nil {
		if err := s.jobs.Enqueue(ctx, queue.WelcomeJob{UserID: user.ID.Hex()}); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("enqueue welcome failed")
		}
	}

	return user, nil
}

// Connect verifies a Basic Authorization header and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Connect(ctx context.Context, authHeader string) (string, error) {
	email, password, ok := DecodeBasicAuth(authHeader)
	if !ok {
		return "", ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	match, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", ErrUnauthorized
	}

	return s.tokens.Issue(ctx, user.ID.Hex())
}

// Disconnect revokes a session token. Revoking a token that was never
// issued (or already expired) is unauthorized, matching the lookup path.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	existed, err := s.tokens.Revoke(ctx, token)
	if err != nil {
		return err
	}
	if !existed {
		return ErrUnauthorized
	}
	return nil
}

// CurrentUser resolves a session token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}

	userID, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, security.ErrNoToken) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	return user, nil
}

// DecodeBasicAuth unpacks a "Basic base64(email:password)" header. The split
// happens at the first colon, so passwords may contain colons and emails may
// not.
func DecodeBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return "", "", false
	}

	email, password, ok = strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return "", "", false
	}
	return email, password, true
}
