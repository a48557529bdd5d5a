package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/occupancy"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/repository"
)

// PublicHandler serves unauthenticated browsing endpoints. Responses sit
// behind the Redis cache middleware, so these handlers only ever read.
type PublicHandler struct {
	Rooms       *repository.RoomRepo
	Assignments *repository.AssignmentRepo
	Hostel      *repository.HostelRepo
}

func NewPublicHandler(rooms *repository.RoomRepo, assignments *repository.AssignmentRepo, hostel *repository.HostelRepo) *PublicHandler {
	if rooms == nil || assignments == nil || hostel == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Rooms: rooms, Assignments: assignments, Hostel: hostel}
}

// ----- DTOs -----

type roomSummary struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	RoomType string `json:"room_type"`
	IsLocked bool   `json:"is_locked"`
	Seats    int    `json:"seats"`
	Occupied int    `json:"occupied"`
}

type seatStatusResp struct {
	elementResp
	Occupied bool `json:"occupied"`
}

type roomDetail struct {
	roomResp
	Seats []seatStatusResp `json:"seats"`
}

type hostelAvailabilityResp struct {
	BuildingID   uint64 `json:"building_id"`
	BuildingName string `json:"building_name"`
	RoomType     string `json:"room_type"`
	Capacity     uint32 `json:"capacity"`
	Available    uint32 `json:"available"`
	PriceCents   uint32 `json:"price_cents"`
	Bookable     bool   `json:"bookable"`
}

// ListRooms returns every room with seat totals and occupancy counts.
func (h *PublicHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	out := make([]roomSummary, 0, len(rooms))
	for _, rm := range rooms {
		assignments, err := h.Assignments.AssignmentsByRoom(ctx, rm.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load occupancy failed"})
		}
		seats := 0
		for _, e := range rm.Elements {
			if e.Kind.Assignable() {
				seats++
			}
		}
		out = append(out, roomSummary{
			ID:       rm.ID,
			Name:     rm.Name,
			RoomType: string(rm.RoomType),
			IsLocked: rm.IsLocked,
			Seats:    seats,
			Occupied: occupancy.OccupiedCount(rm, assignments),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// GetRoom returns one room's layout with per-seat occupancy. Occupant
// identities are not exposed on the public surface.
func (h *PublicHandler) GetRoom(c echo.Context) error {
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
	assignments, err := h.Assignments.AssignmentsByRoom(ctx, rm.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load occupancy failed"})
	}

	detail := roomDetail{roomResp: toRoomResp(rm)}
	for _, s := range occupancy.ForRoom(rm, assignments) {
		detail.Seats = append(detail.Seats, seatStatusResp{
			elementResp: toElementResp(s.Element),
			Occupied:    s.Occupied,
		})
	}
	return c.JSON(http.StatusOK, detail)
}

// GetHostelRoom returns one hostel room with its per-bed occupancy.
func (h *PublicHandler) GetHostelRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Hostel.RoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHostelRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hostel room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hostel room failed"})
	}
	assignments, err := h.Hostel.ActiveAssignments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hostel assignments failed"})
	}

	taken := map[uint32]bool{}
	for _, a := range assignments {
		if a.RoomID == rm.ID {
			taken[a.BedNumber] = true
		}
	}
	beds := make([]echo.Map, 0, rm.Capacity)
	for bed := uint32(1); bed <= rm.Capacity; bed++ {
		beds = append(beds, echo.Map{"bed_number": bed, "occupied": taken[bed]})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            rm.ID,
		"building_id":   rm.BuildingID,
		"building_name": rm.BuildingName,
		"room_type":     rm.RoomType,
		"capacity":      rm.Capacity,
		"label":         rm.Label,
		"price_cents":   rm.PriceCents,
		"beds":          beds,
	})
}

// HostelAvailability returns bed availability aggregated per building and
// room type.
func (h *PublicHandler) HostelAvailability(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Hostel.ListRooms(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list hostel rooms failed"})
	}
	assignments, err := h.Hostel.ActiveAssignments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load hostel assignments failed"})
	}

	avail := occupancy.ForHostel(rooms, assignments)
	out := make([]hostelAvailabilityResp, 0, len(avail))
	for _, a := range avail {
		out = append(out, hostelAvailabilityResp{
			BuildingID:   a.BuildingID,
			BuildingName: a.BuildingName,
			RoomType:     a.RoomType,
			Capacity:     a.Capacity,
			Available:    a.Available,
			PriceCents:   a.PriceCents,
			Bookable:     a.Bookable(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BuildingID != out[j].BuildingID {
			return out[i].BuildingID < out[j].BuildingID
		}
		return out[i].RoomType < out[j].RoomType
	})
	return c.JSON(http.StatusOK, echo.Map{"availability": out})
}
