package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
)

// AdminHandler bundles dependencies for administrator endpoints: room and
// layout management plus seat assignment.
type AdminHandler struct {
	Rooms       *repository.RoomRepo
	Assignments *repository.AssignmentRepo
	Engine      *engine.Manager
}

func NewAdminHandler(rooms *repository.RoomRepo, assignments *repository.AssignmentRepo, eng *engine.Manager) *AdminHandler {
	if rooms == nil || assignments == nil || eng == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Rooms: rooms, Assignments: assignments, Engine: eng}
}

// ----- DTOs -----

type createRoomReq struct {
	Name     string  `json:"name"`
	RoomType string  `json:"room_type"` // ac | non-ac
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type elementResp struct {
	ID     uint64  `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type roomResp struct {
	ID       uint64        `json:"id"`
	Name     string        `json:"name"`
	RoomType string        `json:"room_type"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	IsLocked bool          `json:"is_locked"`
	LockedAt *time.Time    `json:"locked_at,omitempty"`
	Version  uint64        `json:"version"`
	Elements []elementResp `json:"elements"`
}

func toElementResp(e model.Element) elementResp {
	return elementResp{
		ID:     e.ID,
		Kind:   string(e.Kind),
		Label:  e.Label,
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
	}
}

func toRoomResp(rm *model.Room) roomResp {
	out := roomResp{
		ID:       rm.ID,
		Name:     rm.Name,
		RoomType: string(rm.RoomType),
		Width:    rm.Width,
		Height:   rm.Height,
		IsLocked: rm.IsLocked,
		LockedAt: rm.LockedAt,
		Version:  rm.Version,
		Elements: make([]elementResp, 0, len(rm.Elements)),
	}
	for _, e := range rm.Elements {
		out.Elements = append(out.Elements, toElementResp(e))
	}
	return out
}

// CreateRoom creates an empty unlocked room canvas.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	rt := model.RoomType(strings.ToLower(strings.TrimSpace(req.RoomType)))
	if rt != model.RoomAC && rt != model.RoomNonAC {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type must be ac or non-ac"})
	}
	if req.Width <= 0 || req.Height <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "width/height must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm := &model.Room{Name: req.Name, RoomType: rt, Width: req.Width, Height: req.Height}
	if err := h.Rooms.Create(ctx, rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(rm))
}

// ListRooms returns all rooms including their elements.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomResp(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// GetRoom returns one room with its elements.
func (h *AdminHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(rm))
}

// ToggleLock flips the room between editing and operational state.
// Locking stamps locked_at; unlocking clears it. Assignments survive an
// unlock untouched.
func (h *AdminHandler) ToggleLock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.ToggleLock(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, engine.ErrVersionConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room was modified concurrently, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle lock failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(rm))
}

// DeleteRoom removes a room and its elements. When assignments exist the
// request is refused unless force=true, in which case the assignments are
// removed and the affected members' seat state is cleared in the same
// transaction.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	force := strings.EqualFold(c.QueryParam("force"), "true")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id, force); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has active assignments, pass force=true to remove them"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
