package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/domain/reservation"
	"innkeep/internal/domain/user"
)

var (
	ErrNotFound = errors.New("notification: not found")
	// ErrDuplicate signals that a notification of the same type already
	// exists for the reservation. Stores enforce it with a unique index on
	// (reservation_id, type) so concurrent sweeps cannot double-insert.
	ErrDuplicate = errors.New("notification: duplicate for reservation and type")
)

type ID string

type Type string

const (
	TypeBookingConfirmation Type = "BOOKING_CONFIRMATION"
	TypeCheckInReminder     Type = "CHECK_IN_REMINDER"
	TypeCheckOutReminder    Type = "CHECK_OUT_REMINDER"
	TypeCheckInSuccess      Type = "CHECK_IN_SUCCESS"
	TypeCheckOutSuccess     Type = "CHECK_OUT_SUCCESS"
	TypeBookingCancelled    Type = "BOOKING_CANCELLED"
)

type Notification struct {
	ID            ID
	UserID        user.ID
	ReservationID reservation.ID
	Type          Type
	Message       string
	IsRead        bool
	CreatedAt     time.Time
}

type Repository interface {
	ByUser(ctx context.Context, userID user.ID) ([]*Notification, error)
	Exists(ctx context.Context, reservationID reservation.ID, typ Type) (bool, error)
	Save(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, id ID, userID user.ID) error
	MarkAllRead(ctx context.Context, userID user.ID) error
}

func New(id ID, userID user.ID, reservationID reservation.ID, typ Type, message string, now time.Time) *Notification {
	if now.IsZero() {
		now = time.Now()
	}
	return &Notification{
		ID:            id,
		UserID:        userID,
		ReservationID: reservationID,
		Type:          typ,
		Message:       message,
		CreatedAt:     now.UTC(),
	}
}

func ConfirmationMessage(r *reservation.Reservation) string {
	return fmt.Sprintf("Your reservation for room %s has been confirmed!", r.RoomID)
}

func CancellationMessage(r *reservation.Reservation) string {
	return fmt.Sprintf("Your reservation for room %s has been cancelled.", r.RoomID)
}

func CheckInReminderMessage(r *reservation.Reservation) string {
	return fmt.Sprintf("Reminder: your check-in is scheduled for tomorrow, %s.", r.Stay.CheckIn.Format("2006-01-02"))
}

func CheckOutReminderMessage(r *reservation.Reservation) string {
	return fmt.Sprintf("Reminder: your check-out is scheduled for tomorrow, %s. Please clear your dues.", r.Stay.CheckOut.Format("2006-01-02"))
}

func CheckInSuccessMessage(r *reservation.Reservation) string {
	return fmt.Sprintf("You have successfully checked in for reservation %s.", r.ID)
}

func CheckOutSuccessMessage(roomNumber string) string {
	return fmt.Sprintf("You have successfully checked out of room %s. Thank you for staying with us!", roomNumber)
}
