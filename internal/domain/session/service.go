// internal/domain/session/service.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
)

// Backend is the subset of the upstream client the session manager needs
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*backend.User, error)
}

// Session is a resolved terminal session: who is at the register and the
// upstream token their requests ride on.
type Session struct {
	ID    string
	User  backend.User
	Token string
}

// Service owns the terminal session lifecycle: set on login, cleared on
// logout or on any upstream unauthorized response.
type Service struct {
	backend Backend
	store   Store
	jwt     *auth.JWTManager
	logger  *logrus.Logger
	ttl     time.Duration
}

// NewService creates a new session service
func NewService(b Backend, store Store, jwtManager *auth.JWTManager, logger *logrus.Logger, ttl time.Duration) *Service {
	return &Service{
		backend: b,
		store:   store,
		jwt:     jwtManager,
		logger:  logger,
		ttl:     ttl,
	}
}

// LoginResponse is what the terminal receives after authenticating
type LoginResponse struct {
	Token string       `json:"token"`
	User  backend.User `json:"user"`
}

// Login authenticates against the upstream API, keeps the upstream
// bearer token server-side, and issues the terminal its own session JWT.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	state := &State{
		UserID:    result.User.ID,
		Name:      result.User.Name,
		Email:     result.User.Email,
		Role:      result.User.Role,
		Token:     result.Token,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Put(ctx, sessionID, state, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.jwt.GenerateSessionToken(sessionID, result.User.Name, result.User.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    result.User.ID,
		"role":       result.User.Role,
	}).Info("Terminal session opened")

	return &LoginResponse{Token: token, User: result.User}, nil
}

// Resolve loads the stored session for an authenticated request
func (s *Service) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID: sessionID,
		User: backend.User{
			ID:       state.UserID,
			Name:     state.Name,
			Email:    state.Email,
			Role:     state.Role,
			IsActive: true,
		},
		Token: state.Token,
	}, nil
}

// Logout revokes the upstream token best-effort and destroys the session
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	state, err := s.store.Get(ctx, sessionID)
	if err == nil {
		if err := s.backend.Logout(ctx, state.Token); err != nil {
			s.logger.WithError(err).WithField("session_id", sessionID).
				Warn("Upstream logout failed, destroying session anyway")
		}
	}
	return s.Destroy(ctx, sessionID)
}

// Destroy drops the stored session. Called on logout and whenever an
// upstream call answers unauthorized.
func (s *Service) Destroy(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	s.logger.WithField("session_id", sessionID).Info("Terminal session destroyed")
	return nil
}

// Profile fetches the session user's profile from the upstream
func (s *Service) Profile(ctx context.Context, sess *Session) (*backend.User, error) {
	return s.backend.Me(ctx, sess.Token)
}
