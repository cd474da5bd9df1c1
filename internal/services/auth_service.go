package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/middleware"
	"clubledger/internal/models"
)

// authService handles login, token refresh, and logout. Authentication is
// by ID card number and mobile number: admins are checked first, then
// members.
type authService struct {
	db        *gorm.DB
	blacklist *middleware.TokenBlacklist
}

// NewAuthService creates a new AuthServicer. The blacklist may be nil,
// in which case logout is a no-op.
func NewAuthService(db *gorm.DB, blacklist *middleware.TokenBlacklist) AuthServicer {
	return &authService{db: db, blacklist: blacklist}
}

// Login resolves the credentials against active admins, then active
// members, and issues an access/refresh token pair. The error is the same
// whichever lookup failed; callers cannot probe which identities exist.
func (s *authService) Login(idCardNo, mobile string) (*AuthUser, *TokenPair, error) {
	idCardNo = strings.TrimSpace(idCardNo)
	mobile = strings.TrimSpace(mobile)
	if idCardNo == "" || mobile == "" {
		return nil, nil, apperrors.ErrValidation
	}

	var admin models.Admin
	err := s.db.Where("id_card_no = ? AND mobile = ?", idCardNo, mobile).First(&admin).Error
	if err == nil {
		if admin.Status != models.AccountStatusActive {
			return nil, nil, apperrors.ErrAccountInactive
		}
		return s.issueTokens(admin.ID, admin.IDCardNo, admin.Name, admin.Role)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var member models.Member
	err = s.db.Where("id_card_no = ? AND mobile = ?", idCardNo, mobile).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if member.Status != models.AccountStatusActive {
		return nil, nil, apperrors.ErrAccountInactive
	}

	return s.issueTokens(member.ID, member.IDCardNo, member.Name, models.RoleMember)
}

// Refresh validates a refresh token and issues a fresh token pair.
func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := middleware.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	accessToken, err := middleware.GenerateAccessToken(claims.UserID, claims.IDCardNo, claims.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	newRefreshToken, err := middleware.GenerateRefreshToken(claims.UserID, claims.IDCardNo, claims.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the current access token until its natural expiry.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.blacklist == nil || tokenID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, tokenID, time.Until(expiresAt)); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *authService) issueTokens(userID uint, idCardNo, name string, role models.Role) (*AuthUser, *TokenPair, error) {
	accessToken, err := middleware.GenerateAccessToken(userID, idCardNo, role)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(userID, idCardNo, role)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &AuthUser{ID: userID, IDCardNo: idCardNo, Name: name, Role: role}
	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
