package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
	"clubledger/internal/services"
)

// DonationHandler handles donation requests.
type DonationHandler struct {
	donationService services.DonationServicer
	activityService services.ActivityServicer
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService services.DonationServicer, activityService services.ActivityServicer) *DonationHandler {
	return &DonationHandler{donationService: donationService, activityService: activityService}
}

// CreateDonationRequest represents the request payload for recording a donation.
type CreateDonationRequest struct {
	DonorName     string               `json:"donor_name" binding:"required,min=1,max=200"`
	Amount        decimal.Decimal      `json:"amount" binding:"required"`
	Date          time.Time            `json:"date" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	Note          string               `json:"note" binding:"omitempty,max=500"`
}

// UpdateDonationRequest represents the request payload for editing a donation.
type UpdateDonationRequest struct {
	DonorName     string                `json:"donor_name" binding:"omitempty,min=1,max=200"`
	Amount        *decimal.Decimal      `json:"amount"`
	Date          *time.Time            `json:"date"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Note          *string               `json:"note" binding:"omitempty,max=500"`
}

// CreateDonation handles recording a new donation.
// @Summary     Record a donation
// @Description Record a donation in pending status
// @Tags        donations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDonationRequest true "Donation details"
// @Success     201 {object} models.Donation "Donation recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	donation, err := h.donationService.CreateDonation(req.DonorName, req.Amount, req.Date, req.PaymentMethod, req.Note, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "donation_created", fmt.Sprintf("recorded donation from %s", donation.DonorName))

	c.JSON(http.StatusCreated, gin.H{"donation": donation})
}

// GetDonations handles listing donations.
// @Summary     Get donations
// @Description Get a paginated list of donations
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Donation] "Paginated donations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /donations [get]
func (h *DonationHandler) GetDonations(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	donations, err := h.donationService.GetDonations(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, donations)
}

// UpdateDonation handles editing a donation.
// @Summary     Update a donation
// @Description Edit a donation's fields
// @Tags        donations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Donation ID"
// @Param       request body UpdateDonationRequest true "Fields to update"
// @Success     200 {object} models.Donation "Donation updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id} [put]
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	donationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	donation, err := h.donationService.UpdateDonation(donationID, req.DonorName, req.Amount, req.Date, req.PaymentMethod, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "donation_updated", fmt.Sprintf("updated donation #%d", donation.ID))

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

// ApproveDonation handles approving a donation.
// @Summary     Approve a donation
// @Description Mark a pending donation approved
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donation ID"
// @Success     200 {object} models.Donation "Donation approved"
// @Failure     400 {object} ErrorResponse "Already approved"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id}/approve [put]
func (h *DonationHandler) ApproveDonation(c *gin.Context) {
	donationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	donation, err := h.donationService.ApproveDonation(donationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "donation_approved", fmt.Sprintf("approved donation from %s", donation.DonorName))

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

// RejectDonation handles rejecting a donation.
// @Summary     Reject a donation
// @Description Mark a donation rejected
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donation ID"
// @Success     200 {object} models.Donation "Donation rejected"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id}/reject [put]
func (h *DonationHandler) RejectDonation(c *gin.Context) {
	donationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	donation, err := h.donationService.RejectDonation(donationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "donation_rejected", fmt.Sprintf("rejected donation from %s", donation.DonorName))

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

// DeleteDonation handles deleting a donation.
// @Summary     Delete a donation
// @Description Delete a donation record
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donation ID"
// @Success     200 {object} map[string]string "Donation deleted"
// @Failure     404 {object} ErrorResponse "Donation not found"
// @Router      /donations/{id} [delete]
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	donationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.donationService.DeleteDonation(donationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.logActivity(c, "donation_deleted", fmt.Sprintf("deleted donation #%d", donationID))

	c.JSON(http.StatusOK, gin.H{"message": "Donation deleted"})
}

func (h *DonationHandler) logActivity(c *gin.Context, activityType, details string) {
	if idCardNo, err := getIDCardNo(c); err == nil {
		h.activityService.Log(activityType, idCardNo, details)
	}
}
