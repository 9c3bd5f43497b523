package models_test

import (
	"testing"

	"webchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Topics:   pq.StringArray{"music", "travel"},
	}
	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	// Act - call the hook directly (GORM would call this automatically)
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	// Arrange
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Username: "bob", Email: "bob@example.com"}

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

// TestUserPasswordRoundTrip verifies hashing and verification of credentials.
func TestUserPasswordRoundTrip(t *testing.T) {
	// Arrange
	user := &models.User{Username: "alice"}

	// Act
	require.NoError(t, user.SetPassword("s3cret-password"))

	// Assert
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "s3cret-password", "Plaintext must never be stored")
	assert.True(t, user.CheckPassword("s3cret-password"))
	assert.False(t, user.CheckPassword("wrong-password"))
	assert.False(t, user.CheckPassword(""), "Empty password never matches")
}

func TestUserCheckPasswordWithoutHash(t *testing.T) {
	user := &models.User{Username: "alice"}
	assert.False(t, user.CheckPassword("anything"))
}

// TestUserProfileSnapshot verifies the wire snapshot exposes only public
// fields.
func TestUserProfileSnapshot(t *testing.T) {
	// Arrange
	user := &models.User{
		ID:           "user_A",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Avatar:       "https://cdn.example.com/a.png",
		Topics:       pq.StringArray{"music"},
	}

	// Act
	profile := user.Profile()

	// Assert
	assert.Equal(t, models.Profile{
		ID:       "user_A",
		Username: "alice",
		Avatar:   "https://cdn.example.com/a.png",
		Topics:   []string{"music"},
	}, profile)
}
