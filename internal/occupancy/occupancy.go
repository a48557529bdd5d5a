// Package occupancy derives availability from current state. Everything
// here is a recomputation over the full assignment set rather than an
// incremental counter, so the numbers are correct after any write without
// separate bookkeeping.
package occupancy

import "github.com/PrabigyaAcharya64/mero-reading-room/internal/model"

// SeatStatus pairs a seat element with its occupancy.
type SeatStatus struct {
	Element  model.Element
	Occupied bool
	// UserID of the occupant, zero when the seat is free.
	UserID uint64
}

// ForRoom computes per-seat occupancy for a room from its assignments.
// Non-seat elements are skipped. An element is occupied when an
// assignment references its id.
func ForRoom(room *model.Room, assignments []model.SeatAssignment) []SeatStatus {
	bySeat := make(map[uint64]uint64, len(assignments))
	for _, a := range assignments {
		bySeat[a.SeatID] = a.UserID
	}
	var out []SeatStatus
	for _, el := range room.Elements {
		if !el.Kind.Assignable() {
			continue
		}
		uid, ok := bySeat[el.ID]
		out = append(out, SeatStatus{Element: el, Occupied: ok, UserID: uid})
	}
	return out
}

// OccupiedCount returns how many seats in the room are occupied.
func OccupiedCount(room *model.Room, assignments []model.SeatAssignment) int {
	n := 0
	for _, s := range ForRoom(room, assignments) {
		if s.Occupied {
			n++
		}
	}
	return n
}

// TypeKey aggregates hostel availability per building and room type.
type TypeKey struct {
	BuildingID uint64 `json:"building_id"`
	RoomType   string `json:"room_type"`
}

// Availability summarizes bed availability for one (building, type) pair.
type Availability struct {
	BuildingID   uint64 `json:"building_id"`
	BuildingName string `json:"building_name"`
	RoomType     string `json:"room_type"`
	Capacity     uint32 `json:"capacity"`
	Available    uint32 `json:"available"`
	PriceCents   uint32 `json:"price_cents"`
}

// Bookable reports whether at least one bed of this type is free.
func (a Availability) Bookable() bool { return a.Available > 0 }

// bedKey identifies one physical bed.
type bedKey struct {
	roomID uint64
	bed    uint32
}

// ForHostel computes bed availability per (building, type). Only ACTIVE
// assignments occupy beds, and only bed numbers within 1..capacity count:
// a stray assignment pointing at a bed a room does not have cannot push
// availability below what the remaining beds justify. When rooms of the
// same type carry different prices, the cheapest one is reported.
func ForHostel(rooms []model.HostelRoom, assignments []model.HostelAssignment) map[TypeKey]Availability {
	occupied := make(map[bedKey]struct{}, len(assignments))
	for _, a := range assignments {
		if a.Status != model.HostelStatusActive {
			continue
		}
		occupied[bedKey{roomID: a.RoomID, bed: a.BedNumber}] = struct{}{}
	}
	out := make(map[TypeKey]Availability)
	for _, r := range rooms {
		free := uint32(0)
		for bed := uint32(1); bed <= r.Capacity; bed++ {
			if _, taken := occupied[bedKey{roomID: r.ID, bed: bed}]; !taken {
				free++
			}
		}
		key := TypeKey{BuildingID: r.BuildingID, RoomType: r.RoomType}
		agg := out[key]
		agg.BuildingID = r.BuildingID
		agg.BuildingName = r.BuildingName
		agg.RoomType = r.RoomType
		agg.Capacity += r.Capacity
		agg.Available += free
		if agg.PriceCents == 0 || r.PriceCents < agg.PriceCents {
			agg.PriceCents = r.PriceCents
		}
		out[key] = agg
	}
	return out
}

// FreeBed returns the lowest free bed number in the given room, or false
// when the room is full. Used to pick a concrete bed before delegating a
// purchase to the allocation service.
func FreeBed(room model.HostelRoom, assignments []model.HostelAssignment) (uint32, bool) {
	taken := make(map[uint32]struct{})
	for _, a := range assignments {
		if a.RoomID == room.ID && a.Status == model.HostelStatusActive {
			taken[a.BedNumber] = struct{}{}
		}
	}
	for bed := uint32(1); bed <= room.Capacity; bed++ {
		if _, t := taken[bed]; !t {
			return bed, true
		}
	}
	return 0, false
}
