package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainhotel "innkeep/internal/domain/hotel"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
	"innkeep/internal/infra/storage/s3"
)

var ErrPhotoRequired = errors.New("rooms: photo content is required")

type Service struct {
	UoWFactory uow.UoWFactory
	Uploader   s3.Uploader
	Logger     *slog.Logger
	Now        func() time.Time
}

type CreateParams struct {
	HotelID   domainhotel.ID
	Number    string
	Type      string
	BaseCents int64
	Currency  string
	Capacity  int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainroom.Room, error) {
	roomType, err := domainroom.ParseType(params.Type)
	if err != nil {
		return nil, err
	}
	price, err := money.New(params.BaseCents, params.Currency)
	if err != nil {
		return nil, err
	}
	var out *domainroom.Room
	err = support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Hotels().ByID(ctx, params.HotelID); err != nil {
			return err
		}
		rm, err := domainroom.New(domainroom.CreateParams{
			ID:        domainroom.ID(uuid.NewString()),
			HotelID:   params.HotelID,
			Number:    params.Number,
			Type:      roomType,
			BasePrice: price,
			Capacity:  params.Capacity,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("room created", "room_id", rm.ID, "hotel_id", rm.HotelID, "number", rm.Number)
		}
		out = rm
		return nil
	})
	return out, err
}

type UpdateParams struct {
	ID        domainroom.ID
	Number    string
	Type      string
	BaseCents int64
	Currency  string
	Capacity  int
	Status    string
}

func (s *Service) Update(ctx context.Context, params UpdateParams) (*domainroom.Room, error) {
	var out *domainroom.Room
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		rm, err := unit.Rooms().ByID(ctx, params.ID)
		if err != nil {
			return err
		}
		if params.Number != "" {
			rm.Number = strings.TrimSpace(params.Number)
		}
		if params.Type != "" {
			roomType, err := domainroom.ParseType(params.Type)
			if err != nil {
				return err
			}
			rm.Type = roomType
		}
		if params.BaseCents > 0 {
			price, err := money.New(params.BaseCents, params.Currency)
			if err != nil {
				return err
			}
			rm.BasePrice = price
		}
		if params.Capacity > 0 {
			rm.Capacity = params.Capacity
		}
		if params.Status != "" {
			status, err := domainroom.ParseStatus(params.Status)
			if err != nil {
				return err
			}
			rm.Status = status
		}
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return err
		}
		out = rm
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id domainroom.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		occupied, err := unit.Reservations().AnyActiveOverlap(ctx, id, futureWindow(s.now()))
		if err != nil {
			return err
		}
		if occupied {
			return domainreservation.ErrRoomUnavailable
		}
		return unit.Rooms().Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Rooms().ByID(ctx, id)
}

func (s *Service) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Rooms().ByHotel(ctx, hotelID)
}

type SearchParams struct {
	HotelID     domainhotel.ID
	CheckIn     time.Time
	CheckOut    time.Time
	Type        string
	MinCapacity int
}

// SearchAvailable returns the rooms a guest can actually book for the stay:
// the manual status flag must be available and no occupying reservation may
// overlap the requested dates.
func (s *Service) SearchAvailable(ctx context.Context, params SearchParams) ([]*domainroom.Room, error) {
	stay, err := domainrange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	var rooms []*domainroom.Room
	if params.HotelID != "" {
		rooms, err = unit.Rooms().ByHotel(ctx, params.HotelID)
	} else {
		rooms, err = unit.Rooms().List(ctx)
	}
	if err != nil {
		return nil, err
	}
	filtered := rooms[:0:0]
	for _, rm := range rooms {
		if params.Type != "" && !strings.EqualFold(string(rm.Type), params.Type) {
			continue
		}
		if params.MinCapacity > 0 && rm.Capacity < params.MinCapacity {
			continue
		}
		filtered = append(filtered, rm)
	}
	guard := domainreservation.Guard{Reservations: unit.Reservations()}
	return guard.FilterFree(ctx, filtered, stay)
}

// Recommendations ranks available rooms by how well they match the guest's
// booking history: room types they have stayed in before score higher, and
// prices close to their historical average per night score higher.
func (s *Service) Recommendations(ctx context.Context, userID domainuser.ID, checkIn, checkOut time.Time, limit int) ([]*domainroom.Room, error) {
	free, err := s.SearchAvailable(ctx, SearchParams{CheckIn: checkIn, CheckOut: checkOut})
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	history, err := unit.Reservations().ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	typeCounts := make(map[domainroom.Type]int)
	var spentTotal, nightsTotal int64
	for _, past := range history {
		rm, err := unit.Rooms().ByID(ctx, past.RoomID)
		if err != nil {
			continue
		}
		typeCounts[rm.Type]++
		spentTotal += past.TotalAmount.Amount
		nightsTotal += int64(past.Stay.Nights())
	}
	var avgNight int64
	if nightsTotal > 0 {
		avgNight = spentTotal / nightsTotal
	}

	type scored struct {
		room  *domainroom.Room
		score int64
	}
	ranked := make([]scored, 0, len(free))
	for _, rm := range free {
		// Two points per past stay in the same room type, minus the
		// relative distance from the guest's average nightly spend.
		score := int64(typeCounts[rm.Type]) * 200
		if avgNight > 0 {
			diff := rm.BasePrice.Amount - avgNight
			if diff < 0 {
				diff = -diff
			}
			penalty := diff * 100 / avgNight
			if penalty > 100 {
				penalty = 100
			}
			score += 100 - penalty
		}
		ranked = append(ranked, scored{room: rm, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]*domainroom.Room, 0, limit)
	for _, sc := range ranked[:limit] {
		out = append(out, sc.room)
	}
	return out, nil
}

type UploadPhotoParams struct {
	RoomID      domainroom.ID
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (s *Service) UploadPhoto(ctx context.Context, params UploadPhotoParams) (*domainroom.Room, error) {
	if s.Uploader == nil {
		return nil, errors.New("rooms: photo uploader unavailable")
	}
	if params.Reader == nil {
		return nil, ErrPhotoRequired
	}
	var out *domainroom.Room
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		rm, err := unit.Rooms().ByID(ctx, params.RoomID)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("rooms/%s/%s-%s", rm.ID, uuid.NewString(), strings.TrimSpace(params.FileName))
		publicURL, err := s.Uploader.Upload(ctx, key, params.Reader, params.ContentType)
		if err != nil {
			return fmt.Errorf("upload room photo: %w", err)
		}
		rm.PhotoURL = publicURL
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("room photo updated", "room_id", rm.ID, "url", publicURL)
		}
		out = rm
		return nil
	})
	return out, err
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// futureWindow covers from today far enough ahead to catch any open stay.
func futureWindow(now time.Time) domainrange.DateRange {
	start := domainrange.Midnight(now)
	return domainrange.DateRange{CheckIn: start, CheckOut: start.AddDate(5, 0, 0)}
}
