package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	reservationsvc "innkeep/internal/app/services/reservations"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
)

type ReservationHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListMine(c *gin.Context)
	ListAll(c *gin.Context)
	Update(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
	CheckIn(c *gin.Context)
	CheckOut(c *gin.Context)
}

type ReservationHandler struct {
	Service *reservationsvc.Service
	Logger  *slog.Logger
}

// Create books a room. The Idempotency-Key header makes network retries safe:
// a replayed request returns the original outcome instead of a second booking.
func (h ReservationHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req dto.CreateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.Service.Create(c.Request.Context(), reservationsvc.CreateParams{
		RoomID:         domainroom.ID(req.RoomID),
		Actor:          p.actor(),
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationHandler) Get(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	booking, err := h.Service.Get(c.Request.Context(), domainreservation.ID(c.Param("id")), p.actor())
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(booking))
}

func (h ReservationHandler) ListMine(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListMine(c.Request.Context(), p.actor().ID)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservations(bookings))
}

func (h ReservationHandler) ListAll(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	bookings, err := h.Service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservations(bookings))
}

// Update moves a pending reservation to new dates or guest count, repricing
// against the seasonal rates in force at update time.
func (h ReservationHandler) Update(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req dto.UpdateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	booking, err := h.Service.Update(c.Request.Context(), reservationsvc.UpdateParams{
		ID:       domainreservation.ID(c.Param("id")),
		Actor:    p.actor(),
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(booking))
}

func (h ReservationHandler) Confirm(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	booking, err := h.Service.Confirm(c.Request.Context(), domainreservation.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(booking))
}

func (h ReservationHandler) Cancel(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	booking, err := h.Service.Cancel(c.Request.Context(), domainreservation.ID(c.Param("id")), p.actor())
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(booking))
}

func (h ReservationHandler) CheckIn(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	booking, err := h.Service.CheckIn(c.Request.Context(), domainreservation.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(booking))
}

// CheckOut closes the stay and returns the reservation together with the
// freshly generated bill.
func (h ReservationHandler) CheckOut(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	result, err := h.Service.CheckOut(c.Request.Context(), domainreservation.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation": dto.MapReservation(result.Reservation),
		"bill":        dto.MapBill(result.Bill),
	})
}

var _ ReservationHTTP = (*ReservationHandler)(nil)
