package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/layout"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
)

// ----- DTOs -----

type addElementReq struct {
	Kind           string  `json:"kind"` // seat | door | window | toilet
	Label          string  `json:"label"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	SizeMultiplier float64 `json:"size_multiplier"`
}

type moveElementReq struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// layoutError maps layout and repository sentinels to HTTP responses.
// Returns false when the error was not recognized.
func layoutError(c echo.Context, err error) (bool, error) {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, layout.ErrRoomLocked):
		return true, c.JSON(http.StatusConflict, echo.Map{"error": "room is locked, unlock it to edit the layout"})
	case errors.Is(err, layout.ErrLabelRequired):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "seat label required"})
	case errors.Is(err, layout.ErrUnknownKind):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown element kind"})
	case errors.Is(err, layout.ErrElementNotFound):
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
	case errors.Is(err, engine.ErrVersionConflict):
		return true, c.JSON(http.StatusConflict, echo.Map{"error": "room was modified concurrently, retry"})
	}
	return false, nil
}

// editLayout loads the room, applies edit to produce the replacement
// collection, persists it guarded by the room version, and returns the
// updated room.
func (h *AdminHandler) editLayout(c echo.Context, roomID uint64, edit func(*model.Room) ([]model.Element, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if handled, resp := layoutError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}

	elements, err := edit(rm)
	if err != nil {
		if handled, resp := layoutError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "edit layout failed"})
	}

	if err := h.Rooms.ReplaceElements(ctx, rm.ID, rm.Version, elements); err != nil {
		if handled, resp := layoutError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save layout failed"})
	}

	updated, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(updated))
}

// AddElement places a new element on the canvas. The position is clamped
// to the canvas bounds and the size multiplier scales the kind's base
// footprint.
func (h *AdminHandler) AddElement(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req addElementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.editLayout(c, roomID, func(rm *model.Room) ([]model.Element, error) {
		return layout.AddElement(rm, model.ElementKind(req.Kind), req.Label, req.X, req.Y, req.SizeMultiplier)
	})
}

// MoveElement repositions an existing element, clamped to the canvas.
func (h *AdminHandler) MoveElement(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	elementID, err := pathID(c, "eid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid element id"})
	}
	var req moveElementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.editLayout(c, roomID, func(rm *model.Room) ([]model.Element, error) {
		return layout.MoveElement(rm, elementID, req.X, req.Y)
	})
}

// DeleteElement removes an element from the canvas. A seat that still
// holds an assignment cannot be deleted; the assignment must be removed
// first.
func (h *AdminHandler) DeleteElement(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	elementID, err := pathID(c, "eid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid element id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if a, err := h.Assignments.AssignmentBySeat(ctx, elementID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check seat failed"})
	} else if a != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat has an active assignment, remove it first"})
	}

	return h.editLayout(c, roomID, func(rm *model.Room) ([]model.Element, error) {
		return layout.DeleteElement(rm, elementID)
	})
}
