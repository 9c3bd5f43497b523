package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is the persisted multi-user room record. Who is actually present and
// what has been said live only in the hub's memory; this row holds the
// metadata that must survive between visits: name, topic, ownership and the
// last-activity timestamp the hub bumps on every message.
type Room struct {
	ID              string `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	Description     string `json:"description"`
	Topic           string `gorm:"size:50;not null;index" json:"topic"`
	MaxParticipants int    `gorm:"default:50" json:"max_participants"`

	// CreatedByID is the owner. When the owner leaves, the hub tears the room
	// down and deletes this row.
	CreatedByID string `gorm:"not null;index" json:"created_by"`

	LastActivity time.Time `gorm:"index" json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.LastActivity.IsZero() {
		r.LastActivity = time.Now()
	}
	return
}
