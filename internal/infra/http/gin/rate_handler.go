package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	ratesvc "innkeep/internal/app/services/rates"
	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainroom "innkeep/internal/domain/room"
)

type RateHTTP interface {
	ListByHotel(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
	Quote(c *gin.Context)
}

type RateHandler struct {
	Service *ratesvc.Service
	Logger  *slog.Logger
}

func (h RateHandler) ListByHotel(c *gin.Context) {
	rates, err := h.Service.ListByHotel(c.Request.Context(), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRates(rates))
}

func (h RateHandler) Create(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	var req dto.CreateRateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rate, err := h.Service.Create(c.Request.Context(), ratesvc.CreateParams{
		HotelID:    domainhotel.ID(c.Param("id")),
		Name:       req.Name,
		Start:      req.StartDate,
		End:        req.EndDate,
		Multiplier: req.Multiplier,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRate(rate))
}

func (h RateHandler) Delete(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainrate.ID(c.Param("id"))); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Quote prices a prospective stay night by night without booking anything.
func (h RateHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	quote, err := h.Service.Quote(c.Request.Context(), domainroom.ID(req.RoomID), req.CheckIn, req.CheckOut)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapQuote(quote))
}

var _ RateHTTP = (*RateHandler)(nil)
