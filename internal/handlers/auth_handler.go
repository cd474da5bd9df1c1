package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/middleware"
	"clubledger/internal/services"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService     services.AuthServicer
	activityService services.ActivityServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthServicer, activityService services.ActivityServicer) *AuthHandler {
	return &AuthHandler{authService: authService, activityService: activityService}
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	IDCardNo string `json:"id_card_no" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
}

// RefreshRequest represents the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login authenticates by ID card number and mobile number.
// @Summary     Log in
// @Description Authenticate with ID card number and mobile number
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} map[string]interface{} "User and token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	user, tokens, err := h.authService.Login(req.IDCardNo, req.Mobile)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log("login", user.IDCardNo, "logged in")

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// Refresh exchanges a refresh token for a new token pair.
// @Summary     Refresh tokens
// @Description Exchange a valid refresh token for a new access/refresh pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} services.TokenPair "New token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid refresh token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the current access token.
// @Summary     Log out
// @Description Revoke the presented access token until it expires
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	idCardNo, err := getIDCardNo(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tokenID, _ := c.Get(middleware.ContextTokenID)
	expValue, _ := c.Get(middleware.ContextTokenExp)

	id, _ := tokenID.(string)
	exp, ok := expValue.(time.Time)
	if !ok {
		exp = time.Now()
	}

	if err := h.authService.Logout(c.Request.Context(), id, exp); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log("logout", idCardNo, "logged out")

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
