package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/occupancy"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/payment"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
)

// HostelHandler serves hostel booking for members. Pricing and the final
// allocation are delegated to the payment service; this handler only
// gates the purchase on locally computed availability and picks the bed.
type HostelHandler struct {
	Hostel   *repository.HostelRepo
	Payments *payment.Client
}

func NewHostelHandler(hostel *repository.HostelRepo, payments *payment.Client) *HostelHandler {
	if hostel == nil || payments == nil {
		panic("nil dependency passed to NewHostelHandler")
	}
	return &HostelHandler{Hostel: hostel, Payments: payments}
}

type purchaseReq struct {
	BuildingID uint64 `json:"building_id"`
	RoomType   string `json:"room_type"`
	Months     int    `json:"months"`
	CouponCode string `json:"coupon_code"`
}

// Purchase books a hostel bed: recompute availability for the requested
// (building, type), refuse when nothing is bookable, pick the first free
// bed and delegate payment plus allocation to the payment service.
func (h *HostelHandler) Purchase(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomType = strings.ToLower(strings.TrimSpace(req.RoomType))
	if req.BuildingID == 0 || req.RoomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id and room_type required"})
	}
	if req.Months <= 0 {
		req.Months = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Hostel.RoomsByType(ctx, req.BuildingID, req.RoomType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hostel rooms failed"})
	}
	if len(rooms) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such building/room type"})
	}
	assignments, err := h.Hostel.ActiveAssignments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hostel assignments failed"})
	}

	key := occupancy.TypeKey{BuildingID: req.BuildingID, RoomType: req.RoomType}
	if avail, ok := occupancy.ForHostel(rooms, assignments)[key]; !ok || !avail.Bookable() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no beds available"})
	}

	// Pick the first room with a free bed. Availability said there is one.
	var roomID uint64
	var bed uint32
	for _, rm := range rooms {
		if b, ok := occupancy.FreeBed(rm, assignments); ok {
			roomID, bed = rm.ID, b
			break
		}
	}
	if roomID == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no beds available"})
	}

	resp, err := h.Payments.ProcessHostelPurchase(ctx, payment.PurchaseRequest{
		UserID:     uid,
		RoomID:     roomID,
		BedNumber:  bed,
		Months:     req.Months,
		CouponCode: strings.TrimSpace(req.CouponCode),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "payment service timed out"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment service rejected the purchase"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"assignment_id": resp.AssignmentID,
		"room_id":       roomID,
		"bed_number":    bed,
		"total_cents":   resp.TotalCents,
		"reference":     resp.Reference,
	})
}

// Quote returns the computed price for a hostel stay without purchasing.
func (h *HostelHandler) Quote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Months <= 0 {
		req.Months = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	quote, err := h.Payments.CalculatePayment(ctx, payment.CalculateRequest{
		UserID:      uid,
		ServiceType: "hostel",
		Months:      req.Months,
		CouponCode:  strings.TrimSpace(req.CouponCode),
		RoomType:    strings.ToLower(strings.TrimSpace(req.RoomType)),
		BuildingID:  req.BuildingID,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_cents":    quote.TotalCents,
		"discount_cents": quote.Discount,
	})
}
