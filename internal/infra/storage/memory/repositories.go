package memory

import (
	"context"
	"sort"
	"sync"

	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
)

// HotelRepository keeps hotels in memory. Useful for tests and local runs.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.ID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.ID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	return cloneHotel(h), nil
}

func (r *HotelRepository) List(ctx context.Context) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		out = append(out, cloneHotel(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[h.ID] = cloneHotel(h)
	return nil
}

func (r *HotelRepository) Delete(ctx context.Context, id domainhotel.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainhotel.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// RoomRepository keeps rooms in memory.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainroom.ID]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.ID]*domainroom.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	return cloneRoom(rm), nil
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainroom.Room
	for _, rm := range r.items {
		if rm.HotelID == hotelID {
			out = append(out, cloneRoom(rm))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainroom.Room, 0, len(r.items))
	for _, rm := range r.items {
		out = append(out, cloneRoom(rm))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rm.ID] = cloneRoom(rm)
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id domainroom.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainroom.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// RateRepository keeps seasonal rates in memory.
type RateRepository struct {
	mu    sync.RWMutex
	items map[domainrate.ID]*domainrate.SeasonalRate
}

func NewRateRepository() *RateRepository {
	return &RateRepository{items: make(map[domainrate.ID]*domainrate.SeasonalRate)}
}

func (r *RateRepository) ByID(ctx context.Context, id domainrate.ID) (*domainrate.SeasonalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sr, ok := r.items[id]
	if !ok {
		return nil, domainrate.ErrNotFound
	}
	return cloneRate(sr), nil
}

func (r *RateRepository) ByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainrate.SeasonalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainrate.SeasonalRate
	for _, sr := range r.items {
		if sr.HotelID == hotelID {
			out = append(out, cloneRate(sr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *RateRepository) IntersectingStay(ctx context.Context, hotelID domainhotel.ID, stay daterange.DateRange) ([]*domainrate.SeasonalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainrate.SeasonalRate
	for _, sr := range r.items {
		if sr.HotelID == hotelID && sr.IntersectsStay(stay) {
			out = append(out, cloneRate(sr))
		}
	}
	return out, nil
}

func (r *RateRepository) Save(ctx context.Context, sr *domainrate.SeasonalRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sr.ID] = cloneRate(sr)
	return nil
}

func (r *RateRepository) Delete(ctx context.Context, id domainrate.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainrate.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneHotel(h *domainhotel.Hotel) *domainhotel.Hotel {
	if h == nil {
		return nil
	}
	out := *h
	return &out
}

func cloneRoom(rm *domainroom.Room) *domainroom.Room {
	if rm == nil {
		return nil
	}
	out := *rm
	return &out
}

func cloneRate(sr *domainrate.SeasonalRate) *domainrate.SeasonalRate {
	if sr == nil {
		return nil
	}
	out := *sr
	return &out
}

var (
	_ domainhotel.Repository = (*HotelRepository)(nil)
	_ domainroom.Repository  = (*RoomRepository)(nil)
	_ domainrate.Repository  = (*RateRepository)(nil)
)
