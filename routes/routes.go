package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/controllers"
	"hotel-booking/middleware"
	"hotel-booking/services"
)

// Handlers bundles everything the router wires.
type Handlers struct {
	Rooms     *controllers.RoomController
	RoomTypes *controllers.RoomTypeController
	Guests    *controllers.GuestController
	Auth      *controllers.AuthController
	Checkout  *controllers.CheckoutController
	Quick     *controllers.WidgetController
	Section   *controllers.WidgetController

	Tokens  middleware.TokenValidator
	Limiter services.RateLimiter
	Log     *logrus.Logger
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter builds the engine. Only trustedProxies may set the client IP
// through X-Forwarded-For; with none, the socket address is the client.
func SetupRouter(h Handlers, corsOrigins string, trustedProxies []string) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		h.Log.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.Logger(h.Log))

	origins := parseCorsOrigins(corsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader, "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/checkout", h.Checkout.Summary)

	requireAuth := middleware.RequireAuth(h.Tokens, h.Log)
	optionalAuth := middleware.OptionalAuth(h.Tokens)
	limit := middleware.RateLimit(h.Limiter, h.Log)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.POST("/availability", optionalAuth, limit, h.Rooms.CheckAvailability)
		}
		api.GET("/room-types", h.RoomTypes.GetRoomTypes)

		admin := api.Group("/admin", requireAuth)
		{
			admin.GET("/users", h.Guests.SearchUsers)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", limit, h.Auth.Login)
			auth.POST("/sync-user-metadata", requireAuth, h.Auth.SyncUserMetadata)
		}

		widgets := api.Group("/widget", optionalAuth)
		{
			registerWidget(widgets.Group("/quick"), h.Quick, limit)
			registerWidget(widgets.Group("/section"), h.Section, limit)
		}
	}

	return r
}

func registerWidget(g *gin.RouterGroup, wc *controllers.WidgetController, limit gin.HandlerFunc) {
	g.POST("/search", limit, wc.Search)
	g.POST("/select-room", wc.SelectRoom)
	g.POST("/guest-info", wc.SubmitGuestInfo)
	g.DELETE("/guest-info", wc.CancelGuestInfo)
	g.GET("/state", wc.State)
}
