package services

import (
	"context"
	"log"
	"strings"

	"likedposts/app/models"
	"likedposts/app/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CLISessionID is the fixed session slot the terminal client logs into.
const CLISessionID = "cli"

// SessionService handles storing and dropping bearer tokens
type SessionService struct {
	repo repositories.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(repo repositories.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Login stores token under id. An empty id gets a fresh one.
func (s *SessionService) Login(id, token, label string) (*models.Session, error) {
	session := &models.Session{
		ID:    id,
		Token: strings.TrimSpace(token),
		Label: strings.TrimSpace(label),
	}
	if err := s.repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// LoginMessage turns a rejected Login into the text shown to the user. It
// reports false for errors that are not about the submitted fields.
func LoginMessage(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", false
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Token":
			if fe.Tag() == "required" {
				return "Token is required", true
			}
			return "Token is too short", true
		case "Label":
			return "Label must be at most 64 characters", true
		}
	}
	return "Invalid login", true
}

// Logout forgets the session. Logging out twice is not an error.
func (s *SessionService) Logout(id string) error {
	if id == "" {
		return nil
	}
	err := s.repo.Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

// Tokens returns a TokenSource reading the session id from the store on every call.
func (s *SessionService) Tokens(id string) *SessionTokens {
	return &SessionTokens{repo: s.repo, id: id}
}

// SessionTokens reads a session's token from local storage.
type SessionTokens struct {
	repo repositories.SessionRepository
	id   string
}

// Token returns "" when the session is missing, expired or unreadable.
func (t *SessionTokens) Token(ctx context.Context) (string, error) {
	if t.id == "" {
		return "", nil
	}
	session, err := t.repo.GetByID(t.id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return "", nil
	case errors.Is(err, repositories.ErrSealBroken):
		log.Printf("session %s cannot be decrypted, treating as logged out", t.id)
		return "", nil
	case err != nil:
		return "", err
	}
	return session.Token, nil
}
