package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, email, full_name, password_hash, role, is_active,
	current_room_id, current_room_name, current_seat_id, current_seat_label,
	next_payment_due, last_payment_date, registration_completed, enrollment_completed,
	selected_room_type, created_at, updated_at`

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, fullName, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, full_name, password_hash, role) VALUES (?,?,?,?)",
		email, fullName, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// scanUser maps one users row, folding the nullable seat columns into a
// CurrentSeat only when all of them are present.
func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var (
		roomID    sql.NullInt64
		roomName  sql.NullString
		seatID    sql.NullInt64
		seatLabel sql.NullString
		nextDue   sql.NullTime
		lastPaid  sql.NullTime
		roomType  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive,
		&roomID, &roomName, &seatID, &seatLabel,
		&nextDue, &lastPaid, &u.Membership.RegistrationCompleted, &u.Membership.EnrollmentCompleted,
		&roomType, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if roomID.Valid && seatID.Valid {
		u.Membership.CurrentSeat = &model.CurrentSeat{
			RoomID:    uint64(roomID.Int64),
			RoomName:  roomName.String,
			SeatID:    uint64(seatID.Int64),
			SeatLabel: seatLabel.String,
		}
	}
	if nextDue.Valid {
		t := nextDue.Time
		u.Membership.NextPaymentDue = &t
	}
	if lastPaid.Valid {
		t := lastPaid.Time
		u.Membership.LastPaymentDate = &t
	}
	if roomType.Valid {
		s := roomType.String
		u.Membership.SelectedRoomType = &s
	}
	return u, nil
}
