package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
)

// Bounded retries for the compare-and-swap loop. Contention on a single
// category is expected to be rare and short-lived.
const reconcileMaxRetries = 3

// budgetReconciler owns the spent/remaining columns of every budget row.
type budgetReconciler struct {
	db *gorm.DB
}

// NewBudgetReconciler creates a new BudgetReconciler.
func NewBudgetReconciler(db *gorm.DB) BudgetReconciler {
	return &budgetReconciler{db: db}
}

// Adjust applies a signed delta to a category's spent amount and rederives
// remaining. The delta is clamped so that spent never leaves [0, allocated]:
// an over-reversal floors at zero and an over-charge ceilings at allocated,
// absorbing the excess rather than failing. The write is guarded by a
// compare-and-swap on the version column and retried on conflict.
func (r *budgetReconciler) Adjust(category string, delta decimal.Decimal) (*models.Budget, error) {
	category = strings.TrimSpace(category)

	for attempt := 0; attempt < reconcileMaxRetries; attempt++ {
		var budget models.Budget
		if err := r.db.Where("category = ?", category).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		newSpent := clampSpent(budget.Spent.Add(delta), budget.Allocated)
		newRemaining := budget.Allocated.Sub(newSpent)

		result := r.db.Model(&models.Budget{}).
			Where("id = ? AND version = ?", budget.ID, budget.Version).
			Updates(map[string]interface{}{
				"spent":     newSpent,
				"remaining": newRemaining,
				"version":   budget.Version + 1,
			})
		if result.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 1 {
			budget.Spent = newSpent
			budget.Remaining = newRemaining
			budget.Version++
			return &budget, nil
		}
		// Someone else won the race; reload and try again.
	}

	return nil, apperrors.ErrBudgetContention
}

// clampSpent bounds spent to [0, allocated].
func clampSpent(spent, allocated decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(spent, decimal.Zero), allocated)
}
