package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
)

// donationService handles donation records. Donations are informational
// only and never interact with budget categories.
type donationService struct {
	db *gorm.DB
}

// NewDonationService creates a new DonationServicer.
func NewDonationService(db *gorm.DB) DonationServicer {
	return &donationService{db: db}
}

// CreateDonation records a donation in pending status.
func (s *donationService) CreateDonation(
	donorName string,
	amount decimal.Decimal,
	date time.Time,
	method models.PaymentMethod,
	note string,
	createdBy uint,
) (*models.Donation, error) {
	donorName = strings.TrimSpace(donorName)
	if donorName == "" || !amount.IsPositive() {
		return nil, apperrors.ErrValidation
	}

	donation := &models.Donation{
		DonorName:     donorName,
		Amount:        amount,
		Date:          date,
		PaymentMethod: method,
		Note:          note,
		Status:        models.DonationStatusPending,
		CreatedBy:     createdBy,
	}

	if err := s.db.Create(donation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return donation, nil
}

// GetDonations returns a paginated list of donations, newest first.
func (s *donationService) GetDonations(page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Donation{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var donations []models.Donation
	if err := s.db.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&donations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(donations, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDonationByID returns a donation by ID.
func (s *donationService) GetDonationByID(donationID uint) (*models.Donation, error) {
	var donation models.Donation
	if err := s.db.First(&donation, donationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDonationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &donation, nil
}

// UpdateDonation edits a donation's fields.
func (s *donationService) UpdateDonation(
	donationID uint,
	donorName string,
	amount *decimal.Decimal,
	date *time.Time,
	method *models.PaymentMethod,
	note *string,
) (*models.Donation, error) {
	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if donorName != "" {
		updates["donor_name"] = strings.TrimSpace(donorName)
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.ErrValidation
		}
		updates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}
	if method != nil {
		updates["payment_method"] = *method
	}
	if note != nil {
		updates["note"] = *note
	}

	if len(updates) > 0 {
		if err := s.db.Model(donation).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return donation, nil
}

// ApproveDonation marks a donation approved. No budget interaction.
func (s *donationService) ApproveDonation(donationID uint) (*models.Donation, error) {
	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}

	if donation.Status == models.DonationStatusApproved {
		return nil, apperrors.WithMessage(apperrors.ErrAlreadyApproved, "Donation is already approved")
	}

	if err := s.db.Model(donation).Update("status", models.DonationStatusApproved).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	donation.Status = models.DonationStatusApproved
	return donation, nil
}

// RejectDonation marks a donation rejected. Idempotent.
func (s *donationService) RejectDonation(donationID uint) (*models.Donation, error) {
	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}

	if donation.Status == models.DonationStatusRejected {
		return donation, nil
	}

	if err := s.db.Model(donation).Update("status", models.DonationStatusRejected).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	donation.Status = models.DonationStatusRejected
	return donation, nil
}

// DeleteDonation soft-deletes a donation.
func (s *donationService) DeleteDonation(donationID uint) error {
	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(donation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
