package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	usersvc "innkeep/internal/app/services/users"
	domainuser "innkeep/internal/domain/user"
)

type UserHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	AssignRoles(c *gin.Context)
	Delete(c *gin.Context)
}

// UserHandler exposes the admin-only account management surface.
type UserHandler struct {
	Service *usersvc.Service
	Logger  *slog.Logger
}

func (h UserHandler) List(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	users, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUsers(users))
}

func (h UserHandler) Get(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	account, err := h.Service.Get(c.Request.Context(), domainuser.ID(c.Param("id")))
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUser(account))
}

// AssignRoles replaces the account's role set. Existing sessions are dropped
// so stale role grants cannot linger on old tokens.
func (h UserHandler) AssignRoles(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req dto.AssignRolesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	account, err := h.Service.AssignRoles(c.Request.Context(), domainuser.ID(c.Param("id")), req.Roles)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUser(account))
}

func (h UserHandler) Delete(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if admin.ID == id {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete own account"})
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainuser.ID(id)); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ UserHTTP = (*UserHandler)(nil)
