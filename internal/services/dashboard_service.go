package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/models"
)

// dashboardService computes dashboard and report aggregates. Only approved
// donations and expenses count toward totals.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetStats returns the headline dashboard numbers. The four independent
// aggregates are fanned out concurrently.
func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.sumAmount(gctx, &models.Donation{}, string(models.DonationStatusApproved))
		stats.TotalDonations = total
		return err
	})
	g.Go(func() error {
		total, err := s.sumAmount(gctx, &models.Expense{}, string(models.ExpenseStatusApproved))
		stats.TotalExpenses = total
		return err
	})
	g.Go(func() error {
		var total decimal.Decimal
		err := s.db.WithContext(gctx).Model(&models.Budget{}).
			Select("COALESCE(SUM(allocated), 0)").Scan(&total).Error
		stats.TotalAllocated = total
		return err
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Admin{}).
			Where("status = ?", models.AccountStatusActive).
			Count(&stats.ActiveAdmins).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats.Remaining = stats.TotalAllocated.Sub(stats.TotalExpenses)
	return stats, nil
}

// GetSummary returns balance and budget utilization for reports.
func (s *dashboardService) GetSummary(ctx context.Context) (*ReportSummary, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{
		TotalDonations: stats.TotalDonations,
		TotalExpenses:  stats.TotalExpenses,
		Balance:        stats.TotalDonations.Sub(stats.TotalExpenses),
		TotalAllocated: stats.TotalAllocated,
	}
	if stats.TotalAllocated.IsPositive() {
		summary.BudgetUtilization = stats.TotalExpenses.
			Div(stats.TotalAllocated).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return summary, nil
}

// GetRecentTransactions merges approved donations and expenses into one
// feed, newest first, with a running balance column. The balance shown on
// the newest row equals the overall balance; each older row peels that
// row's effect off.
func (s *dashboardService) GetRecentTransactions(limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var donations []models.Donation
	if err := s.db.Where("status = ?", models.DonationStatusApproved).
		Order("date DESC").Limit(limit).Find(&donations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := s.db.Where("status = ?", models.ExpenseStatusApproved).
		Order("date DESC").Limit(limit).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transactions := make([]Transaction, 0, len(donations)+len(expenses))
	for _, d := range donations {
		transactions = append(transactions, Transaction{
			Type:   "donation",
			Name:   d.DonorName,
			Amount: d.Amount,
			Date:   d.Date,
		})
	}
	for _, e := range expenses {
		transactions = append(transactions, Transaction{
			Type:   "expense",
			Name:   e.Name,
			Amount: e.Amount,
			Date:   e.Date,
		})
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	totalDonations, err := s.sumAmount(context.Background(), &models.Donation{}, string(models.DonationStatusApproved))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totalExpenses, err := s.sumAmount(context.Background(), &models.Expense{}, string(models.ExpenseStatusApproved))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := totalDonations.Sub(totalExpenses)
	for i := range transactions {
		transactions[i].RunningBalance = balance
		if transactions[i].Type == "donation" {
			balance = balance.Sub(transactions[i].Amount)
		} else {
			balance = balance.Add(transactions[i].Amount)
		}
	}

	return transactions, nil
}

func (s *dashboardService) sumAmount(ctx context.Context, model interface{}, status string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(model).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", status).
		Scan(&total).Error
	return total, err
}
