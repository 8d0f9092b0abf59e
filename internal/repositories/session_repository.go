package repositories

import (
	"time"

	"github.com/mhasan-dev/devgram/backend/internal/models"
	"gorm.io/gorm"
)

// SessionRepository defines the interface for session record operations
type SessionRepository interface {
	CreateSession(session *models.Session) error
	GetSessionByToken(token string) (*models.Session, error)
	GetSessionByUserID(userID uint) (*models.Session, error)
	SetLoginTimestamp(token string, ts time.Time) error
	DeleteSession(token string) error
}

// PostgresSessionRepository implements SessionRepository for PostgreSQL
type PostgresSessionRepository struct {
	db *gorm.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(db *gorm.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// CreateSession creates a new session record in PostgreSQL
func (r *PostgresSessionRepository) CreateSession(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetSessionByToken retrieves a session by its opaque token
func (r *PostgresSessionRepository) GetSessionByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByUserID retrieves the most recent session for a user
func (r *PostgresSessionRepository) GetSessionByUserID(userID uint) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// SetLoginTimestamp records the first observation time of a session
func (r *PostgresSessionRepository) SetLoginTimestamp(token string, ts time.Time) error {
	return r.db.Model(&models.Session{}).Where("token = ?", token).Update("login_timestamp", ts).Error
}

// DeleteSession deletes a session record by token
func (r *PostgresSessionRepository) DeleteSession(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}
