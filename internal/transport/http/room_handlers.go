package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomcast/internal/core"
)

// RoomHandlers provides the synchronous management surface over the registry.
// It observes the same serialization as channel-driven operations: every call
// lands on the registry's mutex.
type RoomHandlers struct {
	reg *core.Registry
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(reg *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		reg: reg,
		log: logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomListResponse holds the current room names in creation order.
type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

// SuccessResponse confirms a management command.
type SuccessResponse struct {
	Success string `json:"success"`
}

// ListRooms returns all room names.
// GET /rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, RoomListResponse{Rooms: h.reg.ListRooms()})
}

// ListRoomUsers returns the members of a room.
// GET /rooms/:room/users
func (h *RoomHandlers) ListRoomUsers(c *gin.Context) {
	room := c.Param("room")

	members, err := h.reg.RoomMembers(room)
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room", room).Msg("failed to list room members")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// DeleteRoom force-deletes a room regardless of membership.
// DELETE /rooms/:room
func (h *RoomHandlers) DeleteRoom(c *gin.Context) {
	room := c.Param("room")

	if err := h.reg.DeleteRoom(room); err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room", room).Msg("failed to delete room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room", room).Msg("room deleted via management API")
	c.JSON(http.StatusOK, SuccessResponse{Success: fmt.Sprintf("Room '%s' has been deleted.", room)})
}
