package repositories

import "likedposts/app/models"

// SessionRepository defines the interface for locally persisted sessions
type SessionRepository interface {
	Create(session *models.Session) error
	GetByID(id string) (*models.Session, error)
	Delete(id string) error
}
