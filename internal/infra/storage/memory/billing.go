package memory

import (
	"context"
	"sort"
	"sync"

	domainbilling "innkeep/internal/domain/billing"
	domainnotification "innkeep/internal/domain/notification"
	domainreservation "innkeep/internal/domain/reservation"
	domainuser "innkeep/internal/domain/user"
)

// BillRepository keeps bills in memory.
type BillRepository struct {
	mu            sync.RWMutex
	items         map[domainbilling.ID]*domainbilling.Bill
	byReservation map[domainreservation.ID]domainbilling.ID
}

func NewBillRepository() *BillRepository {
	return &BillRepository{
		items:         make(map[domainbilling.ID]*domainbilling.Bill),
		byReservation: make(map[domainreservation.ID]domainbilling.ID),
	}
}

func (r *BillRepository) ByID(ctx context.Context, id domainbilling.ID) (*domainbilling.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbilling.ErrNotFound
	}
	return cloneBill(b), nil
}

func (r *BillRepository) ByReservation(ctx context.Context, reservationID domainreservation.ID) (*domainbilling.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byReservation[reservationID]
	if !ok {
		return nil, domainbilling.ErrNotFound
	}
	b, ok := r.items[id]
	if !ok {
		return nil, domainbilling.ErrNotFound
	}
	return cloneBill(b), nil
}

func (r *BillRepository) List(ctx context.Context) ([]*domainbilling.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbilling.Bill, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBill(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BillRepository) Save(ctx context.Context, b *domainbilling.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = cloneBill(b)
	r.byReservation[b.ReservationID] = b.ID
	return nil
}

func (r *BillRepository) Delete(ctx context.Context, id domainbilling.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return domainbilling.ErrNotFound
	}
	delete(r.byReservation, b.ReservationID)
	delete(r.items, id)
	return nil
}

// NotificationRepository keeps notifications in memory with the same
// (reservation, type) uniqueness the mongo index enforces.
type NotificationRepository struct {
	mu     sync.RWMutex
	items  map[domainnotification.ID]*domainnotification.Notification
	unique map[notificationKey]struct{}
}

type notificationKey struct {
	reservation domainreservation.ID
	typ         domainnotification.Type
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		items:  make(map[domainnotification.ID]*domainnotification.Notification),
		unique: make(map[notificationKey]struct{}),
	}
}

func (r *NotificationRepository) ByUser(ctx context.Context, userID domainuser.ID) ([]*domainnotification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainnotification.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) Exists(ctx context.Context, reservationID domainreservation.ID, typ domainnotification.Type) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.unique[notificationKey{reservation: reservationID, typ: typ}]
	return ok, nil
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := notificationKey{reservation: n.ReservationID, typ: n.Type}
	if _, exists := r.items[n.ID]; !exists {
		if _, taken := r.unique[key]; taken {
			return domainnotification.ErrDuplicate
		}
	}
	r.items[n.ID] = cloneNotification(n)
	r.unique[key] = struct{}{}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.ID, userID domainuser.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return domainnotification.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID domainuser.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func cloneBill(b *domainbilling.Bill) *domainbilling.Bill {
	if b == nil {
		return nil
	}
	out := *b
	if b.PaidAt != nil {
		at := *b.PaidAt
		out.PaidAt = &at
	}
	return &out
}

func cloneNotification(n *domainnotification.Notification) *domainnotification.Notification {
	if n == nil {
		return nil
	}
	out := *n
	return &out
}

var (
	_ domainbilling.Repository      = (*BillRepository)(nil)
	_ domainnotification.Repository = (*NotificationRepository)(nil)
)
