// Matching and discovery endpoints.
//
//   - GET /search?q=lang      (public)
//   - GET /match/partners
//   - GET /match/teachers
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Search returns users teaching or learning the queried language code.
func (h *Handlers) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	results, err := h.Matches.SearchByLanguage(c.Request.Context(), q)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"results": results})
}

// MatchPartners returns mutual-exchange partners for the caller.
func (h *Handlers) MatchPartners(c *gin.Context) {
	u, err := h.Accounts.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	matches, err := h.Matches.Partners(c.Request.Context(), u)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"matches": matches})
}

// MatchTeachers returns bookable teachers for the caller's learn set,
// annotated with their rating aggregate and relevant offers.
func (h *Handlers) MatchTeachers(c *gin.Context) {
	u, err := h.Accounts.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	matches, err := h.Matches.Teachers(c.Request.Context(), u)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"matches": matches})
}
