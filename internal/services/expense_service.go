package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/logger"
	"clubledger/internal/models"
	"clubledger/internal/pagination"
)

// expenseService drives the expense lifecycle. It is the only caller of
// the budget reconciler: an expense's amount is charged to its category
// exactly while the expense is approved, reversed when approval ends.
type expenseService struct {
	db         *gorm.DB
	reconciler BudgetReconciler
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, reconciler BudgetReconciler) ExpenseServicer {
	return &expenseService{db: db, reconciler: reconciler}
}

// CreateExpense records an expense. Superadmins auto-approve: the amount is
// checked against the category's remaining budget and charged immediately.
// Admins create pending expenses with no budget effect.
func (s *expenseService) CreateExpense(
	name, category string,
	amount decimal.Decimal,
	date time.Time,
	vendor, description string,
	createdBy uint,
	role models.Role,
) (*models.Expense, error) {
	category = strings.TrimSpace(category)
	if name == "" || category == "" || !amount.IsPositive() {
		return nil, apperrors.ErrValidation
	}

	budget, err := s.findBudget(category)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Name:        strings.TrimSpace(name),
		Category:    category,
		Amount:      amount,
		Date:        date,
		Vendor:      vendor,
		Description: description,
		Status:      models.ExpenseStatusPending,
		CreatedBy:   createdBy,
	}

	if role == models.RoleSuperadmin {
		if amount.GreaterThan(budget.Remaining) {
			return nil, apperrors.ErrInsufficientBudget
		}
		now := time.Now()
		expense.Status = models.ExpenseStatusApproved
		expense.ApprovedBy = &createdBy
		expense.ApprovedAt = &now
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expense.Status == models.ExpenseStatusApproved {
		if _, err := s.reconciler.Adjust(category, amount); err != nil {
			s.warnReconcile("charge new expense", expense.ID, category, err)
		}
	}

	return expense, nil
}

// GetExpenses returns a paginated, filtered list of expenses.
func (s *expenseService) GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{})
	if filter.Category != nil {
		base = base.Where("category = ?", strings.TrimSpace(*filter.Category))
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetExpenseCategories returns the distinct categories used by expenses.
func (s *expenseService) GetExpenseCategories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&models.Expense{}).Distinct("category").Order("category").Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// UpdateExpense edits an expense. If the expense was approved before the
// edit, its old amount is reversed from the old category first, then the
// new amount is charged to the new category. The two reconciles are always
// separate calls, even when the category is unchanged: each clamps
// independently, which is not equivalent to applying the combined delta.
func (s *expenseService) UpdateExpense(
	expenseID uint,
	name, category string,
	amount *decimal.Decimal,
	date *time.Time,
	vendor, description *string,
) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	wasApproved := expense.Status == models.ExpenseStatusApproved
	oldCategory := expense.Category
	oldAmount := expense.Amount

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if category != "" {
		updates["category"] = strings.TrimSpace(category)
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
	if vendor != nil {
		updates["vendor"] = *vendor
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	updated, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	if wasApproved {
		if _, err := s.reconciler.Adjust(oldCategory, oldAmount.Neg()); err != nil {
			s.warnReconcile("reverse edited expense", expenseID, oldCategory, err)
		}
		if updated.Status == models.ExpenseStatusApproved {
			if _, err := s.reconciler.Adjust(updated.Category, updated.Amount); err != nil {
				s.warnReconcile("reapply edited expense", expenseID, updated.Category, err)
			}
		}
	}

	return updated, nil
}

// ApproveExpense moves a pending expense to approved and charges its
// category. Only pending expenses can be approved; the category must still
// exist and hold enough remaining budget at approval time.
func (s *expenseService) ApproveExpense(expenseID, approverID uint) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	if expense.Status == models.ExpenseStatusApproved {
		return nil, apperrors.WithMessage(apperrors.ErrAlreadyApproved, "Expense is already approved")
	}

	budget, err := s.findBudget(expense.Category)
	if err != nil {
		return nil, err
	}
	if expense.Amount.GreaterThan(budget.Remaining) {
		return nil, apperrors.ErrInsufficientBudget
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.ExpenseStatusApproved,
		"approved_by": approverID,
		"approved_at": now,
	}
	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expense.Status = models.ExpenseStatusApproved
	expense.ApprovedBy = &approverID
	expense.ApprovedAt = &now

	if _, err := s.reconciler.Adjust(expense.Category, expense.Amount); err != nil {
		s.warnReconcile("charge approved expense", expenseID, expense.Category, err)
	}

	return expense, nil
}

// RejectExpense marks a pending expense rejected. Rejecting never touches
// the budget and is idempotent: re-rejecting leaves the same state. An
// approved expense cannot be rejected directly; it must be deleted or
// edited instead, so the reversal path stays explicit.
func (s *expenseService) RejectExpense(expenseID, approverID uint) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	if expense.Status == models.ExpenseStatusRejected {
		return expense, nil
	}
	if expense.Status == models.ExpenseStatusApproved {
		return nil, apperrors.WithMessage(apperrors.ErrAlreadyApproved, "Cannot reject an approved expense")
	}

	updates := map[string]interface{}{
		"status":      models.ExpenseStatusRejected,
		"approved_by": approverID,
	}
	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expense.Status = models.ExpenseStatusRejected
	expense.ApprovedBy = &approverID

	return expense, nil
}

// DeleteExpense removes an expense. An approved expense's amount is
// reversed from its category before removal; pending and rejected
// expenses delete without budget effect.
func (s *expenseService) DeleteExpense(expenseID uint) error {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}

	if expense.Status == models.ExpenseStatusApproved {
		if _, err := s.reconciler.Adjust(expense.Category, expense.Amount.Neg()); err != nil {
			s.warnReconcile("reverse deleted expense", expenseID, expense.Category, err)
		}
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findBudget resolves a category to its budget row, mapping a missing
// row to the payload-context category error.
func (s *expenseService) findBudget(category string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("category = ?", strings.TrimSpace(category)).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// warnReconcile logs a failed budget reconcile without failing the expense
// operation. A vanished category leaves the ledger short a reversal; the
// sweep job surfaces the drift.
func (s *expenseService) warnReconcile(op string, expenseID uint, category string, err error) {
	logger.Get().Warnw("budget reconcile skipped",
		"op", op,
		"expense_id", expenseID,
		"category", category,
		"error", err,
	)
}
