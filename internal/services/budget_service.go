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

// budgetService handles budget category management.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget category with spent=0 and remaining=allocated.
func (s *budgetService) CreateBudget(
	name, category string,
	allocated decimal.Decimal,
	date time.Time,
	description string,
	createdBy uint,
) (*models.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" || allocated.IsNegative() {
		return nil, apperrors.ErrValidation
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).Where("category = ?", category).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	budget := &models.Budget{
		Name:        strings.TrimSpace(name),
		Category:    category,
		Allocated:   allocated,
		Spent:       decimal.Zero,
		Remaining:   allocated,
		Date:        date,
		Description: description,
		CreatedBy:   createdBy,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgets returns a paginated list of budget categories.
func (s *budgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Budget{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetCategories returns all category names for the expense form.
func (s *budgetService) GetCategories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&models.Budget{}).Order("category").Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// UpdateBudget updates an existing budget category. When the allocation
// changes, remaining is recomputed from the current spent, and spent is
// clamped down if the new allocation undercuts it.
func (s *budgetService) UpdateBudget(
	budgetID uint,
	name, category string,
	allocated *decimal.Decimal,
	date *time.Time,
	description *string,
) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if category != "" {
		category = strings.TrimSpace(category)
		if category != budget.Category {
			var count int64
			if err := s.db.Model(&models.Budget{}).
				Where("category = ? AND id <> ?", category, budgetID).
				Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count > 0 {
				return nil, apperrors.ErrDuplicateCategory
			}
			updates["category"] = category
		}
	}
	if date != nil {
		updates["date"] = *date
	}
	if description != nil {
		updates["description"] = *description
	}
	if allocated != nil {
		if allocated.IsNegative() {
			return nil, apperrors.ErrValidation
		}
		newSpent := clampSpent(budget.Spent, *allocated)
		updates["allocated"] = *allocated
		updates["spent"] = newSpent
		updates["remaining"] = allocated.Sub(newSpent)
		updates["version"] = budget.Version + 1
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget category. Deletion is refused while
// approved expenses still reference the category, since removing the row
// would strand their charges.
func (s *budgetService) DeleteBudget(budgetID uint) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.Expense{}).
		Where("category = ? AND status = ?", budget.Category, models.ExpenseStatusApproved).
		Count(&inUse).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if inUse > 0 {
		return apperrors.ErrBudgetInUse
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
