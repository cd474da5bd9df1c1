package services

import (
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clubledger/internal/logger"
	"clubledger/internal/models"
)

// LedgerSweeper periodically audits the budget table for drift. It checks
// two things per category: that remaining equals allocated minus spent,
// and that spent matches the sum of approved expenses. Findings are only
// logged; the reconciler stays the sole writer of spent/remaining, and
// clamped charges legitimately make the sums diverge.
type LedgerSweeper struct {
	db *gorm.DB
}

// NewLedgerSweeper creates a consistency sweeper over the given database.
func NewLedgerSweeper(db *gorm.DB) *LedgerSweeper {
	return &LedgerSweeper{db: db}
}

// Register schedules the sweep on the given cron runner.
func (s *LedgerSweeper) Register(c *cron.Cron, schedule string) error {
	_, err := c.AddFunc(schedule, s.Sweep)
	return err
}

// Sweep runs one consistency pass over every budget category.
func (s *LedgerSweeper) Sweep() {
	log := logger.Get()

	var budgets []models.Budget
	if err := s.db.Find(&budgets).Error; err != nil {
		log.Errorw("ledger sweep failed to load budgets", "error", err)
		return
	}

	clean := 0
	for _, b := range budgets {
		drift := b.Remaining.Sub(b.Allocated.Sub(b.Spent))

		var approvedSum decimal.Decimal
		err := s.db.Model(&models.Expense{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("category = ? AND status = ?", b.Category, models.ExpenseStatusApproved).
			Scan(&approvedSum).Error
		if err != nil {
			log.Errorw("ledger sweep failed to sum expenses", "category", b.Category, "error", err)
			continue
		}

		if drift.IsZero() && b.Spent.Equal(approvedSum) {
			clean++
			continue
		}

		log.Warnw("ledger sweep found drift",
			"category", b.Category,
			"allocated", b.Allocated,
			"spent", b.Spent,
			"remaining", b.Remaining,
			"remaining_drift", drift,
			"approved_expense_sum", approvedSum,
		)
	}

	log.Infow("ledger sweep completed", "categories", len(budgets), "clean", clean)
}
