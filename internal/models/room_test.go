package models_test

import (
	"testing"

	"webchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestRoomBeforeCreate verifies id and activity defaults are filled in.
func TestRoomBeforeCreate(t *testing.T) {
	// Arrange
	room := &models.Room{Name: "general", Topic: "science"}

	// Act
	err := room.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	_, parseErr := uuid.Parse(room.ID)
	assert.NoError(t, parseErr, "Room ID must be a valid UUID string")
	assert.False(t, room.LastActivity.IsZero(), "LastActivity should default to now")
}

func TestRoomBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	room := &models.Room{ID: existingID, Name: "general", Topic: "science"}

	err := room.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, room.ID)
}
