// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers: tracing, correlation IDs, redacting logs,
// panic recovery, metrics, CORS, security headers, rate limiting, auth, and
// the versioned API routes including the websocket upgrade.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/config"
	"github.com/nvasilas/go-tandem-backend/internal/http/handlers"
	"github.com/nvasilas/go-tandem-backend/internal/http/middleware"
	"github.com/nvasilas/go-tandem-backend/internal/payments"
	"github.com/nvasilas/go-tandem-backend/internal/services"
	"github.com/nvasilas/go-tandem-backend/internal/ws"
)

// Deps carries the externally constructed dependencies the router wires
// together. Provider and Hub are built in main so tests can substitute both.
type Deps struct {
	DB       *gorm.DB
	Issuer   *auth.TokenIssuer
	Checkout payments.Provider
	Hub      *ws.Hub
}

// RegisterRoutes attaches all middleware and endpoints to the engine.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery
//  5. Body size limit
//  6. Metrics
//  7. Rate limiter
//  8. CORS, gzip, security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db + provider.
	notifier := &services.NotificationService{DB: deps.DB}
	accounts := &services.AccountService{DB: deps.DB, Issuer: deps.Issuer, BcryptCost: cfg.Auth.BcryptCost}
	matches := &services.MatchService{DB: deps.DB}
	offers := &services.OfferService{DB: deps.DB}
	bookings := &services.BookingService{DB: deps.DB, Notifier: notifier}
	chats := &services.ChatService{DB: deps.DB, Notifier: notifier}
	decks := &services.DeckService{DB: deps.DB, Notifier: notifier}

	h := &handlers.Handlers{
		Accounts:      accounts,
		Matches:       matches,
		Offers:        offers,
		Bookings:      bookings,
		Chats:         chats,
		Notifications: notifier,
		Decks:         decks,
		Checkout:      deps.Checkout,
	}

	gateway := ws.NewGateway(deps.Hub, chats, deps.Issuer, cfg.WS)
	r.GET("/ws", gateway.Handle)

	api := groupWithPrefix(r, cfg.APIBasePath)
	authed := middleware.Auth(deps.Issuer)
	{
		// Public
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.GET("/users/:username", h.GetUser)
		api.GET("/search", h.Search)

		// Matching
		api.GET("/match/partners", authed, h.MatchPartners)
		api.GET("/match/teachers", authed, h.MatchTeachers)

		// Account profile
		api.GET("/account/profile", authed, h.GetProfile)
		api.PUT("/account/profile", authed, h.UpdateProfile)
		api.DELETE("/account/profile", authed, h.DeleteProfile)

		// Offers
		api.GET("/account/offers", authed, h.ListOffers)
		api.POST("/account/offers", authed, h.CreateOffer)
		api.PUT("/account/offers/:id", authed, h.UpdateOffer)
		api.DELETE("/account/offers/:id", authed, h.DeleteOffer)

		// Checkout
		api.POST("/offers/:id/book", authed, h.BookOffer)
		api.GET("/offers/:id/session-status", authed, h.SessionStatus)
		api.POST("/offers/:id/return", authed, h.CheckoutReturn)

		// Classes
		api.GET("/account/classes", authed, h.ListClasses)
		api.GET("/account/calendar", authed, h.Calendar)
		api.POST("/account/classes/:id/rate", authed, h.RateClass)
		api.DELETE("/account/classes/:id", authed, h.CancelClass)
		api.POST("/account/classes/:id/reschedule", authed, h.ProposeReschedule)
		api.POST("/account/classes/:id/reschedule/accept", authed, h.AcceptReschedule)
		api.POST("/account/classes/:id/reschedule/decline", authed, h.DeclineReschedule)

		// Inbox
		api.GET("/account/inbox", authed, h.ListInbox)
		api.POST("/account/inbox", authed, h.EnsureChat)
		api.DELETE("/account/inbox/:id/messages", authed, h.DeleteOwnMessages)

		// Reviews
		api.GET("/account/reviews", authed, h.ListReviews)

		// Notifications
		api.GET("/notifications", authed, h.ListNotifications)
		api.POST("/notifications/:id/read", authed, h.ReadNotification)
		api.DELETE("/notifications/:id", authed, h.DeleteNotification)

		// Decks
		api.GET("/account/decks", authed, h.ListDecks)
		api.POST("/account/decks", authed, h.CreateDeck)
		api.GET("/account/decks/:id", authed, h.GetDeck)
		api.GET("/account/decks/:id/study", authed, h.StudyDeck)
		api.PUT("/account/decks/:id", authed, h.UpdateDeck)
		api.DELETE("/account/decks/:id", authed, h.DeleteDeck)
		api.POST("/account/decks/:id/cards", authed, h.AddCard)
		api.PUT("/account/cards/:id", authed, h.UpdateCard)
		api.DELETE("/account/cards/:id", authed, h.DeleteCard)
		api.POST("/decks/:id/clone", authed, h.CloneDeck)
	}
}

// limitBody caps the request body for all endpoints via http.MaxBytesReader.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
