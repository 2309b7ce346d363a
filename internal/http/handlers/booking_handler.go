// Checkout and class lifecycle endpoints.
//
//   - POST /offers/:id/book             open a checkout session
//   - GET  /offers/:id/session-status   echo the session state
//   - POST /offers/:id/return           settle a paid session into a class
//   - GET  /account/classes             student listing
//   - GET  /account/calendar            teacher calendar events
//   - POST /account/classes/:id/rate
//   - DELETE /account/classes/:id
//   - POST /account/classes/:id/reschedule[/accept|/decline]
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/payments"
	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// BookRequest picks the slot the checkout session is opened for.
type BookRequest struct {
	Date     string `json:"date" binding:"required" example:"15-10-2026"`
	Timeslot string `json:"timeslot" binding:"required" example:"14:00"`
}

// BookOffer opens a checkout session for one lesson of the offer and returns
// the client secret the frontend mounts the embedded checkout with.
func (h *Handlers) BookOffer(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	offer, err := h.Offers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromService(c, err)
		return
	}
	sess, err := h.Checkout.CreateSession(c.Request.Context(), payments.CheckoutInput{
		OfferID:     offer.ID,
		StudentID:   userID(c),
		Description: offer.Name,
		Amount:      offer.Price,
		Date:        req.Date,
		Timeslot:    req.Timeslot,
	})
	if err != nil {
		fail(c, http.StatusBadGateway, ErrCodeInternal, "checkout provider unavailable")
		return
	}
	ok(c, http.StatusCreated, gin.H{"session_id": sess.ID, "client_secret": sess.ClientSecret})
}

// SessionStatus echoes the checkout session state for polling frontends.
func (h *Handlers) SessionStatus(c *gin.Context) {
	id := c.Query("session_id")
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter session_id is required")
		return
	}
	sess, err := h.Checkout.GetSession(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "checkout session not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"status": sess.Status, "payment_status": sess.PaymentStatus})
}

// CheckoutReturn settles a finished session: when paid, the class is created
// from the session metadata. Replays of the same session return the same
// class.
func (h *Handlers) CheckoutReturn(c *gin.Context) {
	id := c.Query("session_id")
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter session_id is required")
		return
	}
	sess, err := h.Checkout.GetSession(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "checkout session not found")
		return
	}
	if !sess.Paid() {
		failFromService(c, services.ErrPaymentNotCompleted)
		return
	}
	class, err := h.Bookings.CreateClassFromPayment(
		c.Request.Context(),
		c.Param("id"),
		userID(c),
		sess.ID,
		sess.Metadata["date"],
		sess.Metadata["timeslot"],
	)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, class)
}

// ListClasses returns the caller's booked classes as a student.
func (h *Handlers) ListClasses(c *gin.Context) {
	classes, err := h.Bookings.UpcomingFor(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"classes": classes})
}

// Calendar returns the caller's teaching schedule as concrete time spans.
func (h *Handlers) Calendar(c *gin.Context) {
	events, err := h.Bookings.CalendarFor(c.Request.Context(), userID(c), time.Now().UTC())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"events": events})
}

// RateRequest is the JSON payload for rating a finished class.
type RateRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text"`
}

// RateClass records the student's one-shot review of a class.
func (h *Handlers) RateClass(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	r, err := h.Bookings.Rate(c.Request.Context(), c.Param("id"), userID(c), req.Rating, req.Text)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// CancelClass deletes a class; the counterparty is notified who acted.
func (h *Handlers) CancelClass(c *gin.Context) {
	if err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// RescheduleRequest proposes a new slot for a class.
type RescheduleRequest struct {
	Date     string `json:"date" binding:"required" example:"16-10-2026"`
	Timeslot string `json:"timeslot" binding:"required" example:"10:00"`
}

// ProposeReschedule opens a reschedule proposal on a class.
func (h *Handlers) ProposeReschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	class, err := h.Bookings.ProposeReschedule(c.Request.Context(), c.Param("id"), userID(c), req.Date, req.Timeslot)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, class)
}

// AcceptReschedule applies the pending proposal to the live schedule.
func (h *Handlers) AcceptReschedule(c *gin.Context) {
	h.resolveReschedule(c, true)
}

// DeclineReschedule closes the pending proposal without touching the
// schedule.
func (h *Handlers) DeclineReschedule(c *gin.Context) {
	h.resolveReschedule(c, false)
}

func (h *Handlers) resolveReschedule(c *gin.Context, accept bool) {
	class, err := h.Bookings.ResolveReschedule(c.Request.Context(), c.Param("id"), userID(c), accept)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, class)
}

// ListReviews returns the reviews written about the caller.
func (h *Handlers) ListReviews(c *gin.Context) {
	reviews, err := h.Bookings.ReviewsFor(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"reviews": reviews})
}
