package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	roomsvc "innkeep/internal/app/services/rooms"
	domainhotel "innkeep/internal/domain/hotel"
	domainroom "innkeep/internal/domain/room"
)

type RoomHTTP interface {
	ListByHotel(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Search(c *gin.Context)
	Recommendations(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type RoomHandler struct {
	Service *roomsvc.Service
	Logger  *slog.Logger
}

func (h RoomHandler) ListByHotel(c *gin.Context) {
	rooms, err := h.Service.ListByHotel(c.Request.Context(), domainhotel.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRooms(rooms))
}

func (h RoomHandler) Get(c *gin.Context) {
	rm, err := h.Service.Get(c.Request.Context(), domainroom.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(rm))
}

func (h RoomHandler) Create(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	var req dto.CreateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rm, err := h.Service.Create(c.Request.Context(), roomsvc.CreateParams{
		HotelID:   domainhotel.ID(req.HotelID),
		Number:    req.Number,
		Type:      req.Type,
		BaseCents: req.BaseCents,
		Currency:  req.Currency,
		Capacity:  req.Capacity,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRoom(rm))
}

func (h RoomHandler) Update(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	var req dto.UpdateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rm, err := h.Service.Update(c.Request.Context(), roomsvc.UpdateParams{
		ID:        domainroom.ID(c.Param("id")),
		Number:    req.Number,
		Type:      req.Type,
		BaseCents: req.BaseCents,
		Currency:  req.Currency,
		Capacity:  req.Capacity,
		Status:    req.Status,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(rm))
}

func (h RoomHandler) Delete(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainroom.ID(c.Param("id"))); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search lists rooms free for the requested stay. Dates come from the query
// string as 2006-01-02 or RFC 3339.
func (h RoomHandler) Search(c *gin.Context) {
	checkIn, ok := parseDateQuery(c.Query("check_in"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in is required"})
		return
	}
	checkOut, ok := parseDateQuery(c.Query("check_out"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out is required"})
		return
	}
	rooms, err := h.Service.SearchAvailable(c.Request.Context(), roomsvc.SearchParams{
		HotelID:     domainhotel.ID(c.Query("hotel_id")),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Type:        c.Query("type"),
		MinCapacity: parseIntWithDefault(c.Query("capacity"), 0),
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRooms(rooms))
}

// Recommendations ranks free rooms against the caller's booking history.
func (h RoomHandler) Recommendations(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	checkIn, okIn := parseDateQuery(c.Query("check_in"))
	checkOut, okOut := parseDateQuery(c.Query("check_out"))
	if !okIn || !okOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in and check_out are required"})
		return
	}
	limit := parseIntWithDefault(c.Query("limit"), 10)
	rooms, err := h.Service.Recommendations(c.Request.Context(), p.actor().ID, checkIn, checkOut, limit)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRooms(rooms))
}

// UploadPhoto stores a multipart image and attaches its public URL to the room.
func (h RoomHandler) UploadPhoto(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()
	rm, err := h.Service.UploadPhoto(c.Request.Context(), roomsvc.UploadPhotoParams{
		RoomID:      domainroom.ID(c.Param("id")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoom(rm))
}

var _ RoomHTTP = (*RoomHandler)(nil)
