package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
	"clubledger/internal/services"
)

// AdminHandler handles admin and member management requests.
type AdminHandler struct {
	adminService    services.AdminServicer
	memberService   services.MemberServicer
	activityService services.ActivityServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer, memberService services.MemberServicer, activityService services.ActivityServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService, memberService: memberService, activityService: activityService}
}

// CreateAdminRequest represents the request payload for creating an admin.
type CreateAdminRequest struct {
	IDCardNo  string      `json:"id_card_no" binding:"required,min=1,max=50"`
	Name      string      `json:"name" binding:"required,min=1,max=200"`
	Mobile    string      `json:"mobile" binding:"required,min=8,max=15"`
	Role      models.Role `json:"role" binding:"required,admin_role"`
	AddedDate *time.Time  `json:"added_date"`
}

// UpdateAdminRequest represents the request payload for editing an admin.
type UpdateAdminRequest struct {
	Name   string                `json:"name" binding:"omitempty,min=1,max=200"`
	Mobile string                `json:"mobile" binding:"omitempty,min=8,max=15"`
	Role   *models.Role          `json:"role" binding:"omitempty,admin_role"`
	Status *models.AccountStatus `json:"status" binding:"omitempty,account_status"`
}

// CreateAdmin handles creating an admin account.
// @Summary     Create an admin
// @Description Create an admin or superadmin account
// @Tags        admins
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAdminRequest true "Admin details"
// @Success     201 {object} models.Admin "Admin created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate ID card number"
// @Router      /admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	addedDate := time.Now()
	if req.AddedDate != nil {
		addedDate = *req.AddedDate
	}

	admin, err := h.adminService.CreateAdmin(req.IDCardNo, req.Name, req.Mobile, req.Role, addedDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "admin_created", fmt.Sprintf("added %s %s", admin.Role, admin.Name))

	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

// GetAdmins handles listing admins.
// @Summary     Get admins
// @Description Get a paginated list of admin accounts
// @Tags        admins
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Admin] "Paginated admins"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admins [get]
func (h *AdminHandler) GetAdmins(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	admins, err := h.adminService.GetAdmins(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

// UpdateAdmin handles editing an admin account.
// @Summary     Update an admin
// @Description Edit an admin's name, mobile, role, or status
// @Tags        admins
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Admin ID"
// @Param       request body UpdateAdminRequest true "Fields to update"
// @Success     200 {object} models.Admin "Admin updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Admin not found"
// @Router      /admins/{id} [put]
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	adminID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	admin, err := h.adminService.UpdateAdmin(adminID, req.Name, req.Mobile, req.Role, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "admin_updated", fmt.Sprintf("updated admin %s", admin.Name))

	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// DeleteAdmin handles deleting an admin account.
// @Summary     Delete an admin
// @Description Delete an admin account
// @Tags        admins
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Admin ID"
// @Success     200 {object} map[string]string "Admin deleted"
// @Failure     404 {object} ErrorResponse "Admin not found"
// @Router      /admins/{id} [delete]
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	adminID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteAdmin(adminID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "admin_deleted", fmt.Sprintf("deleted admin #%d", adminID))

	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}

// GetMembers handles listing members.
// @Summary     Get members
// @Description Get a paginated list of club members
// @Tags        admins
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Member] "Paginated members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /admins/members [get]
func (h *AdminHandler) GetMembers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	members, err := h.memberService.GetMembers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// DeleteMember handles deleting a member account.
// @Summary     Delete a member
// @Description Delete a member account
// @Tags        admins
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Member ID"
// @Success     200 {object} map[string]string "Member deleted"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /admins/members/{id} [delete]
func (h *AdminHandler) DeleteMember(c *gin.Context) {
	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.DeleteMember(memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "member_deleted", fmt.Sprintf("deleted member #%d", memberID))

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

func (h *AdminHandler) logActivity(c *gin.Context, activityType, details string) {
	if idCardNo, err := getIDCardNo(c); err == nil {
		h.activityService.Log(activityType, idCardNo, details)
	}
}
