package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
)

// memberService handles member signup and listing.
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB) MemberServicer {
	return &memberService{db: db}
}

// Signup registers a member and assigns the next card number in the
// MEM0001 sequence. Card numbers count soft-deleted rows too so a number
// is never reissued.
func (s *memberService) Signup(name, mobile string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if name == "" || mobile == "" {
		return nil, apperrors.ErrValidation
	}

	var count int64
	if err := s.db.Model(&models.Member{}).Where("mobile = ?", mobile).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateMobile
	}

	var total int64
	if err := s.db.Unscoped().Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	member := &models.Member{
		IDCardNo: fmt.Sprintf("MEM%04d", total+1),
		Name:     name,
		Mobile:   mobile,
		Role:     models.RoleMember,
		Status:   models.AccountStatusActive,
	}

	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return member, nil
}

// GetMembers returns a paginated list of members.
func (s *memberService) GetMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Member{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var members []models.Member
	if err := s.db.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(members, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteMember soft-deletes a member account.
func (s *memberService) DeleteMember(memberID uint) error {
	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
