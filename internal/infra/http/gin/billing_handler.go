package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	billingsvc "innkeep/internal/app/services/billing"
	domainbilling "innkeep/internal/domain/billing"
	domainreservation "innkeep/internal/domain/reservation"
)

type BillingHTTP interface {
	List(c *gin.Context)
	ListMine(c *gin.Context)
	Get(c *gin.Context)
	ByReservation(c *gin.Context)
	Pay(c *gin.Context)
	Refund(c *gin.Context)
	Delete(c *gin.Context)
}

type BillingHandler struct {
	Service *billingsvc.Service
	Logger  *slog.Logger
}

func (h BillingHandler) List(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	bills, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBills(bills))
}

func (h BillingHandler) ListMine(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	bills, err := h.Service.ListMine(c.Request.Context(), p.actor().ID)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBills(bills))
}

func (h BillingHandler) Get(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	bill, err := h.Service.Get(c.Request.Context(), domainbilling.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBill(bill))
}

func (h BillingHandler) ByReservation(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	bill, err := h.Service.ByReservation(c.Request.Context(), domainreservation.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBill(bill))
}

func (h BillingHandler) Pay(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	bill, err := h.Service.Pay(c.Request.Context(), domainbilling.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBill(bill))
}

func (h BillingHandler) Refund(c *gin.Context) {
	if _, ok := requireManagement(c); !ok {
		return
	}
	bill, err := h.Service.Refund(c.Request.Context(), domainbilling.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBill(bill))
}

func (h BillingHandler) Delete(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainbilling.ID(c.Param("id"))); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ BillingHTTP = (*BillingHandler)(nil)
