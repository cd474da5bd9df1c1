package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
)

// adminService handles admin account management.
type adminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB) AdminServicer {
	return &adminService{db: db}
}

// CreateAdmin creates an admin account with a unique ID card number.
func (s *adminService) CreateAdmin(idCardNo, name, mobile string, role models.Role, addedDate time.Time) (*models.Admin, error) {
	idCardNo = strings.TrimSpace(idCardNo)
	name = strings.TrimSpace(name)
	if idCardNo == "" || name == "" || mobile == "" {
		return nil, apperrors.ErrValidation
	}
	if role != models.RoleAdmin && role != models.RoleSuperadmin {
		return nil, apperrors.ErrValidation
	}

	var count int64
	if err := s.db.Model(&models.Admin{}).Where("id_card_no = ?", idCardNo).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateIDCard
	}

	admin := &models.Admin{
		IDCardNo:  idCardNo,
		Name:      name,
		Mobile:    mobile,
		Role:      role,
		AddedDate: addedDate,
		Status:    models.AccountStatusActive,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return admin, nil
}

// GetAdmins returns a paginated list of admins.
func (s *adminService) GetAdmins(page pagination.PageRequest) (*pagination.PageResponse[models.Admin], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Admin{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var admins []models.Admin
	if err := s.db.Order("added_date DESC").Scopes(pagination.Paginate(page)).Find(&admins).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(admins, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAdminByID returns an admin by ID.
func (s *adminService) GetAdminByID(adminID uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &admin, nil
}

// UpdateAdmin edits an admin's fields. The ID card number is immutable
// because it is the login identity.
func (s *adminService) UpdateAdmin(adminID uint, name, mobile string, role *models.Role, status *models.AccountStatus) (*models.Admin, error) {
	admin, err := s.GetAdminByID(adminID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if mobile != "" {
		updates["mobile"] = mobile
	}
	if role != nil {
		if *role != models.RoleAdmin && *role != models.RoleSuperadmin {
			return nil, apperrors.ErrValidation
		}
		updates["role"] = *role
	}
	if status != nil {
		updates["status"] = *status
	}

	if len(updates) > 0 {
		if err := s.db.Model(admin).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return admin, nil
}

// DeleteAdmin soft-deletes an admin account.
func (s *adminService) DeleteAdmin(adminID uint) error {
	admin, err := s.GetAdminByID(adminID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(admin).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
