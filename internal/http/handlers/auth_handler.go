// Account and session endpoints.
//
//   - POST /auth/signup
//   - POST /auth/login
//   - GET/PUT/DELETE /account/profile
//   - GET /users/:username (public projection)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvasilas/go-tandem-backend/internal/domain"
	"github.com/nvasilas/go-tandem-backend/internal/services"
)

// SignupRequest is the JSON payload for registration.
type SignupRequest struct {
	Username     string   `json:"username" binding:"required" example:"maria92"`
	Email        string   `json:"email" binding:"required" example:"maria@example.com"`
	Password     string   `json:"password" binding:"required"`
	Gender       string   `json:"gender"`
	Birthdate    string   `json:"birthdate" binding:"required" example:"12-03-1992"`
	Country      string   `json:"country" binding:"required" example:"ES"`
	TeachLangs   []string `json:"teach_langs"`
	LearnLangs   []string `json:"learn_langs"`
	Private      bool     `json:"private"`
	Professional bool     `json:"professional"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the authenticated profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Signup godoc
// @ID          signup
// @Summary     Register a new account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.SignupRequest true "Signup payload"
// @Success     201 {object} domain.User
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     409 {object} handlers.ErrorResponse
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, err := h.Accounts.Signup(c.Request.Context(), services.SignupInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Gender:       req.Gender,
		Birthdate:    req.Birthdate,
		Country:      req.Country,
		TeachLangs:   req.TeachLangs,
		LearnLangs:   req.LearnLangs,
		Private:      req.Private,
		Professional: req.Professional,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Exchange credentials for a bearer token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.LoginRequest true "Login payload"
// @Success     200 {object} handlers.LoginResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, token, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: u})
}

// GetProfile returns the authenticated user's own profile.
func (h *Handlers) GetProfile(c *gin.Context) {
	u, err := h.Accounts.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// ProfileRequest is the JSON payload for profile edits.
type ProfileRequest struct {
	Username     string   `json:"username" binding:"required"`
	Email        string   `json:"email" binding:"required"`
	Gender       string   `json:"gender"`
	Birthdate    string   `json:"birthdate" binding:"required"`
	Country      string   `json:"country" binding:"required"`
	ProfilePic   string   `json:"profile_pic"`
	TeachLangs   []string `json:"teach_langs"`
	LearnLangs   []string `json:"learn_langs"`
	Private      bool     `json:"private"`
	Professional bool     `json:"professional"`
}

// UpdateProfile rewrites the authenticated user's profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, err := h.Accounts.UpdateProfile(c.Request.Context(), userID(c), services.ProfileInput{
		Username:     req.Username,
		Email:        req.Email,
		Gender:       req.Gender,
		Birthdate:    req.Birthdate,
		Country:      req.Country,
		ProfilePic:   req.ProfilePic,
		TeachLangs:   req.TeachLangs,
		LearnLangs:   req.LearnLangs,
		Private:      req.Private,
		Professional: req.Professional,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// DeleteProfile removes the account and everything owned by it.
func (h *Handlers) DeleteProfile(c *gin.Context) {
	if err := h.Accounts.Delete(c.Request.Context(), userID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// PublicProfile is the projection exposed on public user lookup.
type PublicProfile struct {
	Username     string          `json:"username"`
	Country      string          `json:"country"`
	ProfilePic   string          `json:"profile_pic,omitempty"`
	Professional bool            `json:"professional"`
	TeachLangs   domain.LangList `json:"teach_langs"`
	LearnLangs   domain.LangList `json:"learn_langs"`
}

// GetUser returns the public projection of any user by username.
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.Accounts.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, PublicProfile{
		Username:     u.Username,
		Country:      u.Country,
		ProfilePic:   u.ProfilePic,
		Professional: u.Professional,
		TeachLangs:   u.TeachLangs,
		LearnLangs:   u.LearnLangs,
	})
}
