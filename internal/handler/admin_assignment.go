package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/queue"
	queue_publisher "github.com/PrabigyaAcharya64/mero-reading-room/internal/service"
)

// ----- DTOs -----

type assignReq struct {
	SeatID  uint64 `json:"seat_id"`
	UserID  uint64 `json:"user_id"`
	Confirm bool   `json:"confirm"` // required when the member already holds a seat
}

type assignmentResp struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	UserName   string    `json:"user_name"`
	RoomID     uint64    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	SeatID     uint64    `json:"seat_id"`
	SeatLabel  string    `json:"seat_label"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy uint64    `json:"assigned_by"`
}

func toAssignmentResp(a *model.SeatAssignment) assignmentResp {
	return assignmentResp{
		ID:         a.ID,
		UserID:     a.UserID,
		UserName:   a.UserName,
		RoomID:     a.RoomID,
		RoomName:   a.RoomName,
		SeatID:     a.SeatID,
		SeatLabel:  a.SeatLabel,
		AssignedAt: a.AssignedAt,
		AssignedBy: a.AssignedBy,
	}
}

// publishSeatEvent fires a broker event for a committed assignment change.
// Publishing is best effort: the commit already happened, so a broker
// outage is logged and the request still succeeds.
func publishSeatEvent(kind string, a *model.SeatAssignment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev := queue.SeatEvent{
		Kind:         kind,
		AssignmentID: a.ID,
		UserID:       a.UserID,
		UserName:     a.UserName,
		RoomID:       a.RoomID,
		RoomName:     a.RoomName,
		SeatID:       a.SeatID,
		SeatLabel:    a.SeatLabel,
		AssignedBy:   a.AssignedBy,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishSeatEvent(ctx, ev); err != nil {
		log.Printf("[handler] publish seat event failed: %v", err)
	}
}

// assignError maps engine and repository sentinels to HTTP responses.
func assignError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, engine.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, engine.ErrRoomUnlocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room must be locked before assigning seats"})
	case errors.Is(err, engine.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found in room"})
	case errors.Is(err, engine.ErrSeatOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is already assigned"})
	case errors.Is(err, engine.ErrConfirmRequired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "confirmation required, pass confirm=true"})
	case errors.Is(err, engine.ErrAssignmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
	case errors.Is(err, engine.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room was modified concurrently, retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment operation failed"})
}

// Assign seats a member. When the member already holds a seat anywhere,
// confirm must be set and the existing assignment is replaced with the
// billing dates carried over.
func (h *AdminHandler) Assign(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatID == 0 || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id and user_id required"})
	}
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Checked only to pick the event kind; the engine re-reads under its
	// own preconditions.
	prior, err := h.Assignments.AssignmentByUser(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	a, err := h.Engine.Assign(ctx, engine.AssignRequest{
		RoomID:      roomID,
		SeatID:      req.SeatID,
		UserID:      req.UserID,
		AssignedBy:  adminID,
		ConfirmMove: req.Confirm,
	})
	if err != nil {
		return assignError(c, err)
	}

	kind := queue.SeatAssigned
	if prior != nil {
		kind = queue.SeatReassigned
	}
	publishSeatEvent(kind, a)

	return c.JSON(http.StatusCreated, toAssignmentResp(a))
}

// Unassign releases a seat. Requires confirm=true; the assignment record
// is removed and the member's seat and billing state cleared, while their
// registration and enrollment flags stay granted.
func (h *AdminHandler) Unassign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	confirmed := strings.EqualFold(c.QueryParam("confirm"), "true")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Snapshot for the event payload before the row disappears.
	a, err := h.Assignments.AssignmentByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if a == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
	}

	if err := h.Engine.Unassign(ctx, id, confirmed); err != nil {
		return assignError(c, err)
	}

	publishSeatEvent(queue.SeatReleased, a)
	return c.NoContent(http.StatusNoContent)
}

// ListAssignments returns a room's assignments ordered by seat label.
func (h *AdminHandler) ListAssignments(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Engine.RoomAssignments(ctx, roomID)
	if err != nil {
		return assignError(c, err)
	}
	out := make([]assignmentResp, 0, len(list))
	for i := range list {
		out = append(out, toAssignmentResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"assignments": out})
}
