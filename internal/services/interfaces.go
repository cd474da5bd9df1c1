package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"clubledger/internal/models"
	"clubledger/internal/pagination"
)

// BudgetReconciler is the single authority over a budget category's
// spent and remaining columns. Every mutation to those columns goes
// through Adjust; nothing else writes them after budget creation.
type BudgetReconciler interface {
	Adjust(category string, delta decimal.Decimal) (*models.Budget, error)
}

// BudgetServicer defines the contract for budget category management.
type BudgetServicer interface {
	CreateBudget(name, category string, allocated decimal.Decimal, date time.Time, description string, createdBy uint) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID uint) (*models.Budget, error)
	GetCategories() ([]string, error)
	UpdateBudget(budgetID uint, name, category string, allocated *decimal.Decimal, date *time.Time, description *string) (*models.Budget, error)
	DeleteBudget(budgetID uint) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Category *string
	Status   *models.ExpenseStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// ExpenseServicer defines the contract for the expense lifecycle.
type ExpenseServicer interface {
	CreateExpense(name, category string, amount decimal.Decimal, date time.Time, vendor, description string, createdBy uint, role models.Role) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID uint) (*models.Expense, error)
	GetExpenseCategories() ([]string, error)
	UpdateExpense(expenseID uint, name, category string, amount *decimal.Decimal, date *time.Time, vendor, description *string) (*models.Expense, error)
	ApproveExpense(expenseID, approverID uint) (*models.Expense, error)
	RejectExpense(expenseID, approverID uint) (*models.Expense, error)
	DeleteExpense(expenseID uint) error
}

// DonationServicer defines the contract for donation management.
type DonationServicer interface {
	CreateDonation(donorName string, amount decimal.Decimal, date time.Time, method models.PaymentMethod, note string, createdBy uint) (*models.Donation, error)
	GetDonations(page pagination.PageRequest) (*pagination.PageResponse[models.Donation], error)
	GetDonationByID(donationID uint) (*models.Donation, error)
	UpdateDonation(donationID uint, donorName string, amount *decimal.Decimal, date *time.Time, method *models.PaymentMethod, note *string) (*models.Donation, error)
	ApproveDonation(donationID uint) (*models.Donation, error)
	RejectDonation(donationID uint) (*models.Donation, error)
	DeleteDonation(donationID uint) error
}

// AdminServicer defines the contract for admin account management.
type AdminServicer interface {
	CreateAdmin(idCardNo, name, mobile string, role models.Role, addedDate time.Time) (*models.Admin, error)
	GetAdmins(page pagination.PageRequest) (*pagination.PageResponse[models.Admin], error)
	GetAdminByID(adminID uint) (*models.Admin, error)
	UpdateAdmin(adminID uint, name, mobile string, role *models.Role, status *models.AccountStatus) (*models.Admin, error)
	DeleteAdmin(adminID uint) error
}

// MemberServicer defines the contract for member accounts.
type MemberServicer interface {
	Signup(name, mobile string) (*models.Member, error)
	GetMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error)
	DeleteMember(memberID uint) error
}

// TokenPair bundles the access and refresh tokens returned at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthUser is the identity echoed back to the client after login.
type AuthUser struct {
	ID       uint        `json:"id"`
	IDCardNo string      `json:"id_card_no"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// AuthServicer defines the contract for authentication.
type AuthServicer interface {
	Login(idCardNo, mobile string) (*AuthUser, *TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// ActivityServicer defines the contract for the activity trail.
type ActivityServicer interface {
	Log(activityType, actor, details string)
	GetRecent(limit int) ([]models.Activity, error)
}

// DashboardStats aggregates the headline numbers for the dashboard.
type DashboardStats struct {
	TotalDonations decimal.Decimal `json:"total_donations"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	ActiveAdmins   int64           `json:"active_admins"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// ReportSummary contains balance and utilization figures for reports.
type ReportSummary struct {
	TotalDonations    decimal.Decimal `json:"total_donations"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	Balance           decimal.Decimal `json:"balance"`
	TotalAllocated    decimal.Decimal `json:"total_allocated"`
	BudgetUtilization decimal.Decimal `json:"budget_utilization_pct"`
}

// Transaction is one row of the merged donation/expense feed.
type Transaction struct {
	Type           string          `json:"type"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// DashboardServicer defines the contract for dashboard and report aggregates.
type DashboardServicer interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetSummary(ctx context.Context) (*ReportSummary, error)
	GetRecentTransactions(limit int) ([]Transaction, error)
}

// SheetServicer defines the contract for the shared planning sheet.
type SheetServicer interface {
	GetItems() ([]models.SheetItem, error)
	ReplaceItems(items []models.SheetItem) ([]models.SheetItem, error)
	ClearItems() error
	ImportXLSX(data []byte) ([]models.SheetItem, error)
	Export(exportType string) ([]byte, string, error)
}
