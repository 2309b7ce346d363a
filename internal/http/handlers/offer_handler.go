// Offer CRUD endpoints, all owner-scoped under /account/offers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// OfferRequest is the JSON payload for creating or updating an offer.
type OfferRequest struct {
	Name         string  `json:"name" binding:"required"`
	Language     string  `json:"language" binding:"required"`
	Level        string  `json:"level" binding:"required"`
	LocationType string  `json:"location_type" binding:"required"`
	Location     string  `json:"location"`
	Duration     int     `json:"duration" binding:"required,min=1"`
	ClassType    string  `json:"class_type" binding:"required"`
	MaxGroupSize int     `json:"max_group_size"`
	Price        float64 `json:"price" binding:"required,gt=0"`
}

func (r *OfferRequest) input() services.OfferInput {
	return services.OfferInput{
		Name:         r.Name,
		Language:     r.Language,
		Level:        r.Level,
		LocationType: r.LocationType,
		Location:     r.Location,
		Duration:     r.Duration,
		ClassType:    r.ClassType,
		MaxGroupSize: r.MaxGroupSize,
		Price:        r.Price,
	}
}

// ListOffers returns the caller's published offers.
func (h *Handlers) ListOffers(c *gin.Context) {
	offers, err := h.Offers.ListByOwner(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"offers": offers})
}

// CreateOffer publishes a new offer owned by the caller.
func (h *Handlers) CreateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	o, err := h.Offers.Create(c.Request.Context(), userID(c), req.input())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, o)
}

// UpdateOffer rewrites an offer the caller owns.
func (h *Handlers) UpdateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	o, err := h.Offers.Update(c.Request.Context(), userID(c), c.Param("id"), req.input())
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, o)
}

// DeleteOffer removes an offer the caller owns. Booked classes keep their
// snapshotted terms.
func (h *Handlers) DeleteOffer(c *gin.Context) {
	if err := h.Offers.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
