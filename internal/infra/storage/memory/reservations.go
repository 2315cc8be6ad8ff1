package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
	domainuser "innkeep/internal/domain/user"
)

type nightKey struct {
	room  domainroom.ID
	night time.Time
}

// ReservationRepository keeps reservations and their night claims in memory.
// The claims map plays the role of the unique (room, night) index: ClaimNights
// takes the lock once for the whole stay, so two racing bookings for the same
// room can never both claim a night.
type ReservationRepository struct {
	mu     sync.RWMutex
	items  map[domainreservation.ID]*domainreservation.Reservation
	claims map[nightKey]domainreservation.ID
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items:  make(map[domainreservation.ID]*domainreservation.Reservation),
		claims: make(map[nightKey]domainreservation.ID),
	}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	return cloneReservation(res), nil
}

func (r *ReservationRepository) ByUser(ctx context.Context, userID domainuser.ID) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.items {
		if res.UserID == userID {
			out = append(out, cloneReservation(res))
		}
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) ByStatus(ctx context.Context, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.items {
		if res.Status == status {
			out = append(out, cloneReservation(res))
		}
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreservation.Reservation, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, cloneReservation(res))
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepository) AnyActiveOverlap(ctx context.Context, roomID domainroom.ID, stay daterange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.items {
		if res.RoomID != roomID || !res.Status.Occupying() {
			continue
		}
		if res.Stay.Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepository) ClaimNights(ctx context.Context, roomID domainroom.ID, id domainreservation.ID, stay daterange.DateRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	nights := stay.Days()
	for _, night := range nights {
		key := nightKey{room: roomID, night: night}
		if holder, taken := r.claims[key]; taken && holder != id {
			return domainreservation.ErrRoomUnavailable
		}
	}
	for _, night := range nights {
		r.claims[nightKey{room: roomID, night: night}] = id
	}
	return nil
}

func (r *ReservationRepository) ReleaseNights(ctx context.Context, id domainreservation.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, holder := range r.claims {
		if holder == id {
			delete(r.claims, key)
		}
	}
	return nil
}

func sortReservations(items []*domainreservation.Reservation) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func cloneReservation(res *domainreservation.Reservation) *domainreservation.Reservation {
	if res == nil {
		return nil
	}
	out := *res
	if res.CheckedInAt != nil {
		at := *res.CheckedInAt
		out.CheckedInAt = &at
	}
	if res.CheckedOutAt != nil {
		at := *res.CheckedOutAt
		out.CheckedOutAt = &at
	}
	return &out
}

var _ domainreservation.Repository = (*ReservationRepository)(nil)
