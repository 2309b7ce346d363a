// Flashcard deck endpoints under /account/decks, plus the public clone
// route.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// DeckRequest is the JSON payload for creating or updating a deck.
type DeckRequest struct {
	Language string `json:"language" binding:"required"`
	Level    string `json:"level" binding:"required"`
	Topic    string `json:"topic" binding:"required"`
}

// ListDecks returns the caller's decks.
func (h *Handlers) ListDecks(c *gin.Context) {
	decks, err := h.Decks.ListDecks(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"decks": decks})
}

// CreateDeck creates an empty deck for the caller.
func (h *Handlers) CreateDeck(c *gin.Context) {
	var req DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	d, err := h.Decks.CreateDeck(c.Request.Context(), userID(c), services.DeckInput(req))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// GetDeck returns a deck and its cards in study order.
func (h *Handlers) GetDeck(c *gin.Context) {
	d, cards, err := h.Decks.GetDeck(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deck": d, "cards": cards})
}

// StudyDeck returns the cards still in rotation, highest priority first.
func (h *Handlers) StudyDeck(c *gin.Context) {
	cards, err := h.Decks.Study(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cards": cards})
}

// UpdateDeck rewrites a deck's attributes.
func (h *Handlers) UpdateDeck(c *gin.Context) {
	var req DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	d, err := h.Decks.UpdateDeck(c.Request.Context(), userID(c), c.Param("id"), services.DeckInput(req))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// DeleteDeck removes a deck and its cards.
func (h *Handlers) DeleteDeck(c *gin.Context) {
	if err := h.Decks.DeleteDeck(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// CardRequest is the JSON payload for creating or updating a flashcard.
type CardRequest struct {
	Front    string `json:"front" binding:"required"`
	Back     string `json:"back" binding:"required"`
	Priority int    `json:"priority"`
}

// AddCard appends a card to a deck the caller owns.
func (h *Handlers) AddCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	f, err := h.Decks.AddCard(c.Request.Context(), userID(c), c.Param("id"), services.CardInput(req))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, f)
}

// UpdateCard rewrites a flashcard, including its study priority.
func (h *Handlers) UpdateCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	f, err := h.Decks.UpdateCard(c.Request.Context(), userID(c), c.Param("id"), services.CardInput(req))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, f)
}

// DeleteCard removes a flashcard.
func (h *Handlers) DeleteCard(c *gin.Context) {
	if err := h.Decks.DeleteCard(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// CloneDeck copies another user's deck, cards included, to the caller.
func (h *Handlers) CloneDeck(c *gin.Context) {
	d, err := h.Decks.Clone(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}
