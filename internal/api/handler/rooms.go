package handler

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"webchat/backend/internal/models"
	"webchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Topic           string `json:"topic"`
	MaxParticipants int    `json:"max_participants"`
}

// CreateRoom persists a new public room owned by the caller.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Name == "" || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Room name and topic are required"})
		return
	}

	if _, err := h.Storage.GetRoomByName(req.Name); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Room name already exists"})
		return
	}

	maxParticipants := req.MaxParticipants
	if maxParticipants < 2 || maxParticipants > 100 {
		maxParticipants = 50
	}

	room := &models.Room{
		Name:            req.Name,
		Description:     req.Description,
		Topic:           req.Topic,
		MaxParticipants: maxParticipants,
		CreatedByID:     c.GetString("userID"),
	}
	if err := h.Storage.CreateRoom(room); err != nil {
		log.Printf("ERROR: Failed to create room %s: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms returns one page of public rooms ordered by recent activity.
// Paging values are sanitized here so the echoed pagination matches what was
// actually queried.
func (h *Handler) ListRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	topic := c.Query("topic")

	rooms, total, err := h.Storage.ListPublicRooms(page, limit, topic)
	if err != nil {
		log.Printf("ERROR: Failed to list rooms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetRoom fetches a single room record.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.Storage.GetRoomByID(c.Param("roomId"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, room)
}
