package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
)

// MemberHandler serves the member dashboard endpoints.
type MemberHandler struct {
	Users       *repository.UserRepo
	Assignments *repository.AssignmentRepo
}

func NewMemberHandler(users *repository.UserRepo, assignments *repository.AssignmentRepo) *MemberHandler {
	if users == nil || assignments == nil {
		panic("nil dependency passed to NewMemberHandler")
	}
	return &MemberHandler{Users: users, Assignments: assignments}
}

type mySeatResp struct {
	Seat                  *model.CurrentSeat `json:"seat"` // null when unseated
	NextPaymentDue        *time.Time         `json:"next_payment_due,omitempty"`
	LastPaymentDate       *time.Time         `json:"last_payment_date,omitempty"`
	RegistrationCompleted bool               `json:"registration_completed"`
	EnrollmentCompleted   bool               `json:"enrollment_completed"`
	SelectedRoomType      *string            `json:"selected_room_type,omitempty"`
}

// MySeat resolves the calling member's current seat and billing state
// from the denormalized columns on their own record.
func (h *MemberHandler) MySeat(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	m := u.Membership
	return c.JSON(http.StatusOK, mySeatResp{
		Seat:                  m.CurrentSeat,
		NextPaymentDue:        m.NextPaymentDue,
		LastPaymentDate:       m.LastPaymentDate,
		RegistrationCompleted: m.RegistrationCompleted,
		EnrollmentCompleted:   m.EnrollmentCompleted,
		SelectedRoomType:      m.SelectedRoomType,
	})
}
