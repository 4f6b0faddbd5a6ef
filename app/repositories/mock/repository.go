package mock

import (
	"sync"

	"likedposts/app/models"
	"likedposts/app/repositories"

	"github.com/google/uuid"
)

type SessionRepository struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*models.Session),
	}
}

func (m *SessionRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions = make(map[string]*models.Session)
}

func (m *SessionRepository) Create(session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.BeforeCreate()
	if err := session.Validate(); err != nil {
		return err
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *SessionRepository) GetByID(id string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *session
	return &found, nil
}

func (m *SessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
