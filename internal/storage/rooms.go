package storage

import (
	"errors"
	"log"
	"time"

	"webchat/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateRoom(room *models.Room) error {
	return s.DB.Create(room).Error
}

func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomByName matches the room name case-insensitively, used for the
// uniqueness check at creation time.
func (s *Service) GetRoomByName(name string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Where("LOWER(name) = LOWER(?)", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListPublicRooms returns one page of rooms ordered by recent activity,
// optionally filtered by topic, plus the total count for pagination.
func (s *Service) ListPublicRooms(page, limit int, topic string) ([]models.Room, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.DB.Model(&models.Room{})
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := q.Order("last_activity DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (s *Service) DeleteRoom(roomID string) error {
	return s.DB.Delete(&models.Room{}, "id = ?", roomID).Error
}

// TouchRoomActivity bumps the room's last-activity timestamp. Called by the
// hub on every room message; a failure here never fails the message.
func (s *Service) TouchRoomActivity(roomID string) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("last_activity", time.Now()).Error
}

// SetUserPresence records online/offline plus last-seen in PostgreSQL and
// mirrors the status in Redis under presence:<user-id>. Both writes are
// best-effort; the first error is returned for logging only.
func (s *Service) SetUserPresence(userID, status string, lastSeen time.Time) error {
	err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"online_status": status,
			"last_seen":     lastSeen,
		}).Error

	key := "presence:" + userID
	if status == "online" {
		if rerr := s.Redis.Set(s.Ctx, key, status, 0).Err(); rerr != nil && err == nil {
			err = rerr
		}
	} else {
		if rerr := s.Redis.Del(s.Ctx, key).Err(); rerr != nil && err == nil {
			err = rerr
		}
	}

	if err != nil {
		log.Printf("ERROR: Failed to persist presence for user %s: %v", userID, err)
	}
	return err
}
