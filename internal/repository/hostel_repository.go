package repository // repository for hostel reference data and assignments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// HostelRepo reads hostel rooms and their assignments. Hostel rooms are
// static reference data; assignments are created by the external
// payment/allocation service, so this repository exposes only the reads
// the availability calculator and the purchase gate need.
type HostelRepo struct {
	db *sql.DB
}

// NewHostelRepo constructs a HostelRepo with the given DB handle.
func NewHostelRepo(db *sql.DB) *HostelRepo {
	return &HostelRepo{db: db}
}

// ListRooms returns all hostel rooms ordered by building and label.
func (r *HostelRepo) ListRooms(ctx context.Context) ([]model.HostelRoom, error) {
	const q = `SELECT id, building_id, building_name, room_type, capacity, label, price_cents
	           FROM hostel_rooms ORDER BY building_id, label`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HostelRoom
	for rows.Next() {
		var hr model.HostelRoom
		if err := rows.Scan(&hr.ID, &hr.BuildingID, &hr.BuildingName, &hr.RoomType, &hr.Capacity, &hr.Label, &hr.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomByID returns one hostel room or ErrHostelRoomNotFound.
func (r *HostelRepo) RoomByID(ctx context.Context, id uint64) (*model.HostelRoom, error) {
	const q = `SELECT id, building_id, building_name, room_type, capacity, label, price_cents
	           FROM hostel_rooms WHERE id = ?`
	var hr model.HostelRoom
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&hr.ID, &hr.BuildingID, &hr.BuildingName, &hr.RoomType, &hr.Capacity, &hr.Label, &hr.PriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHostelRoomNotFound
		}
		return nil, err
	}
	return &hr, nil
}

// RoomsByType returns the hostel rooms of one building and type, the
// candidate set when gating a purchase.
func (r *HostelRepo) RoomsByType(ctx context.Context, buildingID uint64, roomType string) ([]model.HostelRoom, error) {
	const q = `SELECT id, building_id, building_name, room_type, capacity, label, price_cents
	           FROM hostel_rooms WHERE building_id = ? AND room_type = ? ORDER BY label`
	rows, err := r.db.QueryContext(ctx, q, buildingID, roomType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HostelRoom
	for rows.Next() {
		var hr model.HostelRoom
		if err := rows.Scan(&hr.ID, &hr.BuildingID, &hr.BuildingName, &hr.RoomType, &hr.Capacity, &hr.Label, &hr.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveAssignments returns every assignment with ACTIVE status. The
// availability calculator recomputes from this full set on each read.
func (r *HostelRepo) ActiveAssignments(ctx context.Context) ([]model.HostelAssignment, error) {
	const q = `SELECT id, room_id, bed_number, user_id, status
	           FROM hostel_assignments WHERE status = ?`
	rows, err := r.db.QueryContext(ctx, q, model.HostelStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HostelAssignment
	for rows.Next() {
		var a model.HostelAssignment
		if err := rows.Scan(&a.ID, &a.RoomID, &a.BedNumber, &a.UserID, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
