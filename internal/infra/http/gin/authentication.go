package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/services/auth"
	"innkeep/internal/app/services/reservations"
	domainauth "innkeep/internal/domain/auth"
	domainuser "innkeep/internal/domain/user"
)

const principalContextKey = "innkeep.principal"

type principal struct {
	ID        string
	Email     string
	Name      string
	Roles     []string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, r := range p.Roles {
		if strings.ToLower(r) == role {
			return true
		}
	}
	return false
}

// actor converts the authenticated principal into the form the reservation
// service uses for ownership checks.
func (p principal) actor() reservations.Actor {
	roles := make([]domainuser.Role, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, domainuser.Role(r))
	}
	return reservations.Actor{ID: domainuser.ID(p.ID), Roles: roles}
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle resolves the bearer token if one is present. Missing or invalid
// tokens leave the request anonymous; the per-route guards decide access.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	user := resolved.User
	setPrincipal(c, principal{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		Roles:     mapRoles(user.Roles),
		Token:     token,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	c.Next()
}

func mapRoles(roles []domainuser.Role) []string {
	result := make([]string, 0, len(roles))
	for _, r := range roles {
		result = append(result, string(r))
	}
	return result
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireAuth accepts any authenticated account.
func requireAuth(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

// requireAnyRole accepts an account holding at least one of the roles.
func requireAnyRole(c *gin.Context, roles ...domainuser.Role) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	for _, role := range roles {
		if p.HasRole(string(role)) {
			return p, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	return principal{}, false
}

// requireStaff accepts any hotel-side role.
func requireStaff(c *gin.Context) (principal, bool) {
	return requireAnyRole(c, domainuser.RoleAdmin, domainuser.RoleHotelManager, domainuser.RoleReceptionist)
}

// requireManagement accepts roles that may change hotel inventory.
func requireManagement(c *gin.Context) (principal, bool) {
	return requireAnyRole(c, domainuser.RoleAdmin, domainuser.RoleHotelManager)
}

func requireAdmin(c *gin.Context) (principal, bool) {
	return requireAnyRole(c, domainuser.RoleAdmin)
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	token := strings.TrimSpace(header[7:])
	return token
}
