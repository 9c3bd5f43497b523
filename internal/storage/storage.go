package storage

import (
	"context"
	"errors"
	"time"

	"webchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced user or room row does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Storage is the persistence contract consumed by the HTTP handlers and the
// chat hub. The hub only ever calls the presence and room side-effect methods,
// all of which are best-effort from its point of view.
type Storage interface {
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	DeleteUser(userID string) error
	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByResetToken(token string) (*models.User, error)

	CreateRoom(room *models.Room) error
	GetRoomByID(roomID string) (*models.Room, error)
	GetRoomByName(name string) (*models.Room, error)
	ListPublicRooms(page, limit int, topic string) ([]models.Room, int64, error)
	DeleteRoom(roomID string) error
	TouchRoomActivity(roomID string) error

	SetUserPresence(userID, status string, lastSeen time.Time) error
}

// Service implements Storage on PostgreSQL (via GORM) plus Redis for the
// presence mirror.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) DeleteUser(userID string) error {
	return s.DB.Delete(&models.User{}, "id = ?", userID).Error
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	return s.firstUser("id = ?", userID)
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	return s.firstUser("email = ?", email)
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	return s.firstUser("username = ?", username)
}

// GetUserByResetToken resolves a password-reset token that has not expired.
func (s *Service) GetUserByResetToken(token string) (*models.User, error) {
	return s.firstUser("reset_password_token = ? AND reset_password_expiry > ?", token, time.Now())
}

func (s *Service) firstUser(query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.DB.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
