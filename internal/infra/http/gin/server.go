package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"innkeep/internal/infra/config"
	"innkeep/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Hotels         HotelHTTP
	Rooms          RoomHTTP
	Rates          RateHTTP
	Reservations   ReservationHTTP
	Billing        BillingHTTP
	Notifications  NotificationHTTP
	Users          UserHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Hotels != nil {
		api.GET("/hotels", h.Hotels.List)
		api.POST("/hotels", h.Hotels.Create)
		api.GET("/hotels/:id", h.Hotels.Get)
		api.PUT("/hotels/:id", h.Hotels.Update)
		api.DELETE("/hotels/:id", h.Hotels.Delete)
	}
	if h.Rooms != nil {
		api.GET("/rooms/available", h.Rooms.Search)
		api.GET("/rooms/recommendations", h.Rooms.Recommendations)
		api.POST("/rooms", h.Rooms.Create)
		api.GET("/rooms/:id", h.Rooms.Get)
		api.PUT("/rooms/:id", h.Rooms.Update)
		api.DELETE("/rooms/:id", h.Rooms.Delete)
		api.POST("/rooms/:id/photo", h.Rooms.UploadPhoto)
		if h.Hotels != nil {
			api.GET("/hotels/:id/rooms", h.Rooms.ListByHotel)
		}
	}
	if h.Rates != nil {
		api.GET("/hotels/:id/rates", h.Rates.ListByHotel)
		api.POST("/hotels/:id/rates", h.Rates.Create)
		api.DELETE("/rates/:id", h.Rates.Delete)
		api.POST("/rates/quote", h.Rates.Quote)
	}
	if h.Reservations != nil {
		api.POST("/reservations", h.Reservations.Create)
		api.GET("/reservations", h.Reservations.ListAll)
		api.GET("/reservations/:id", h.Reservations.Get)
		api.PUT("/reservations/:id", h.Reservations.Update)
		api.POST("/reservations/:id/confirm", h.Reservations.Confirm)
		api.POST("/reservations/:id/cancel", h.Reservations.Cancel)
		api.POST("/reservations/:id/checkin", h.Reservations.CheckIn)
		api.POST("/reservations/:id/checkout", h.Reservations.CheckOut)
		api.GET("/me/reservations", h.Reservations.ListMine)
	}
	if h.Billing != nil {
		api.GET("/bills", h.Billing.List)
		api.GET("/bills/:id", h.Billing.Get)
		api.POST("/bills/:id/pay", h.Billing.Pay)
		api.POST("/bills/:id/refund", h.Billing.Refund)
		api.DELETE("/bills/:id", h.Billing.Delete)
		api.GET("/reservations/:id/bill", h.Billing.ByReservation)
		api.GET("/me/bills", h.Billing.ListMine)
	}
	if h.Notifications != nil {
		api.GET("/me/notifications", h.Notifications.ListMine)
		api.POST("/me/notifications/:id/read", h.Notifications.MarkRead)
		api.POST("/me/notifications/read-all", h.Notifications.MarkAllRead)
	}
	if h.Users != nil {
		adminGroup := api.Group("/admin/users")
		adminGroup.GET("", h.Users.List)
		adminGroup.GET("/:id", h.Users.Get)
		adminGroup.PUT("/:id/roles", h.Users.AssignRoles)
		adminGroup.DELETE("/:id", h.Users.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
