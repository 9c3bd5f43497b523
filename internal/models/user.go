package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.StringArray
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is the persisted account record. The live connection state for a user
// lives in chathub; this row only carries credentials, the display profile and
// the best-effort presence fields the hub writes back on connect/disconnect.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Avatar       string `json:"avatar"`

	// OnlineStatus is "online" or "offline"; maintained by the hub, never read
	// back by it.
	OnlineStatus string    `gorm:"default:offline" json:"online_status"`
	LastSeen     time.Time `json:"last_seen"`

	// Topics are what the user talks about, PreferredTopics what they want a
	// random partner to share.
	Topics          pq.StringArray `gorm:"type:text[]" json:"topics"`
	PreferredTopics pq.StringArray `gorm:"type:text[]" json:"preferred_topics"`

	ResetPasswordToken  string     `gorm:"index" json:"-"`
	ResetPasswordExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when the ID is unset.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// SetPassword hashes and stores the plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if plain == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Profile is the public snapshot of a user that travels over the wire. The
// hub captures one per session at registration time.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Avatar   string   `json:"avatar"`
	Topics   []string `json:"topics,omitempty"`
}

// Profile builds the wire snapshot for this user.
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Topics:   u.Topics,
	}
}
