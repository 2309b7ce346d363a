package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/http/middleware"
	"github.com/nvasilas/go-tandem-backend/internal/payments"
	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// Handlers groups every HTTP endpoint of the API and the services they call.
type Handlers struct {
	Accounts      *services.AccountService
	Matches       *services.MatchService
	Offers        *services.OfferService
	Bookings      *services.BookingService
	Chats         *services.ChatService
	Notifications *services.NotificationService
	Decks         *services.DeckService
	Checkout      payments.Provider
}

// userID returns the authenticated user id placed in the context by the auth
// middleware. Routes registered behind Auth always have it.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}
