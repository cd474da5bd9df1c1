package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/services"
)

// MemberHandler handles public member signup.
type MemberHandler struct {
	memberService   services.MemberServicer
	activityService services.ActivityServicer
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.MemberServicer, activityService services.ActivityServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService, activityService: activityService}
}

// SignupRequest represents the public signup payload.
type SignupRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Mobile string `json:"mobile" binding:"required,min=8,max=15"`
}

// Signup handles public member registration.
// @Summary     Member signup
// @Description Register as a club member; a card number is generated
// @Tags        members
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "Member details"
// @Success     201 {object} models.Member "Member registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Mobile already registered"
// @Router      /members/signup [post]
func (h *MemberHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	member, err := h.memberService.Signup(req.Name, req.Mobile)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log("member_signup", member.IDCardNo, fmt.Sprintf("%s joined", member.Name))

	c.JSON(http.StatusCreated, gin.H{"member": member})
}
