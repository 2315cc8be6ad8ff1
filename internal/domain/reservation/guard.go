package reservation

import (
	"context"

	"innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
)

// Guard answers "is this room free for these dates". A candidate [ci, co)
// conflicts with an existing occupying reservation [rci, rco) iff
// ci < rco && co > rci; stays that merely touch at a boundary do not
// conflict, so a checkout day can be somebody else's check-in day.
//
// The guard is a pre-check only. Two concurrent requests can both see a
// free room before either commits; Repository.ClaimNights is what makes
// the final insert safe.
type Guard struct {
	Reservations Repository
}

// IsRoomFree reports whether no occupying reservation overlaps the stay.
// An unknown room simply has no reservations and reads as free.
func (g Guard) IsRoomFree(ctx context.Context, roomID room.ID, stay daterange.DateRange) (bool, error) {
	occupied, err := g.Reservations.AnyActiveOverlap(ctx, roomID, stay)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}

// FilterFree keeps the rooms that pass both gates: the manual status flag
// must be AVAILABLE, and no occupying reservation may overlap the stay.
func (g Guard) FilterFree(ctx context.Context, rooms []*room.Room, stay daterange.DateRange) ([]*room.Room, error) {
	free := make([]*room.Room, 0, len(rooms))
	for _, rm := range rooms {
		if rm.Status != room.StatusAvailable {
			continue
		}
		ok, err := g.IsRoomFree(ctx, rm.ID, stay)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, rm)
		}
	}
	return free, nil
}
