package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	hotelsvc "innkeep/internal/app/services/hotels"
	domainhotel "innkeep/internal/domain/hotel"
)

type HotelHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type HotelHandler struct {
	Service *hotelsvc.Service
	Logger  *slog.Logger
}

func (h HotelHandler) List(c *gin.Context) {
	hotels, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotels(hotels))
}

func (h HotelHandler) Get(c *gin.Context) {
	hotel, err := h.Service.Get(c.Request.Context(), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(hotel))
}

func (h HotelHandler) Create(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	var req dto.CreateHotelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	hotel, err := h.Service.Create(c.Request.Context(), hotelsvc.CreateParams{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapHotel(hotel))
}

func (h HotelHandler) Update(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	var req dto.UpdateHotelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	hotel, err := h.Service.Update(c.Request.Context(), hotelsvc.UpdateParams{
		ID:      domainhotel.ID(c.Param("id")),
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(hotel))
}

func (h HotelHandler) Delete(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainhotel.ID(c.Param("id"))); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ HotelHTTP = (*HotelHandler)(nil)
