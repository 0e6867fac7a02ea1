package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/dbmysql"
)

var (
	ErrInvalid  = errors.New("invalid argument")
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

// InvoiceView adds the overdue flag, which is derived from the due date at
// read time rather than stored.
type InvoiceView struct {
	dbmysql.Invoice
	Overdue bool `json:"overdue"`
}

type CreateInvoiceParams struct {
	OrganizationID string
	TenantID       *string
	Description    string
	Amount         int64
	DueDate        time.Time
}

type CreateExpenseParams struct {
	OrganizationID string
	PropertyID     *string
	Category       string
	Amount         int64
	IncurredAt     time.Time
	Notes          string
}

// Summary is the month-to-date money view for the dashboard. Outstanding is
// the total of sent, unpaid invoices regardless of month.
type Summary struct {
	Revenue            int64            `json:"revenue"`
	Outstanding        int64            `json:"outstanding"`
	Expenses           int64            `json:"expenses"`
	ExpensesByCategory map[string]int64 `json:"expenses_by_category"`
	Net                int64            `json:"net"`
}

var validExpenseCategories = map[string]bool{
	"maintenance": true, "utilities": true, "insurance": true,
	"taxes": true, "management": true, "other": true,
}

var validPlans = map[string]bool{"starter": true, "growth": true, "portfolio": true}

type BillingService interface {
	CreateInvoice(ctx context.Context, p CreateInvoiceParams) (*dbmysql.Invoice, error)
	ListInvoices(ctx context.Context, orgID string) ([]*InvoiceView, error)
	MarkInvoiceSent(ctx context.Context, orgID, invoiceID string) (*dbmysql.Invoice, error)
	MarkInvoicePaid(ctx context.Context, orgID, invoiceID string) (*dbmysql.Invoice, error)

	CreateExpense(ctx context.Context, p CreateExpenseParams) (*dbmysql.Expense, error)
	ListExpenses(ctx context.Context, orgID string) ([]*dbmysql.Expense, error)
	DeleteExpense(ctx context.Context, orgID, expenseID string) error

	MonthSummary(ctx context.Context, orgID string) (*Summary, error)

	GetSubscription(ctx context.Context, orgID string) (*dbmysql.Subscription, error)
	ChangePlan(ctx context.Context, orgID, plan string, seats int) (*dbmysql.Subscription, error)
}

type billingService struct {
	invoices      InvoiceRepository
	expenses      ExpenseRepository
	subscriptions SubscriptionRepository
	now           func() time.Time
}

func NewBillingService(invoices InvoiceRepository, expenses ExpenseRepository, subscriptions SubscriptionRepository) BillingService {
	return &billingService{
		invoices:      invoices,
		expenses:      expenses,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

func (s *billingService) CreateInvoice(ctx context.Context, p CreateInvoiceParams) (*dbmysql.Invoice, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if p.Amount <= 0 {
		return nil, invalidf("amount must be positive")
	}
	if p.DueDate.IsZero() {
		return nil, invalidf("due date is required")
	}
	count, err := s.invoices.CountInvoices(ctx, p.OrganizationID)
	if err != nil {
		return nil, err
	}
	invoice := &dbmysql.Invoice{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		TenantID:       p.TenantID,
		Number:         fmt.Sprintf("INV-%s-%04d", s.now().Format("200601"), count+1),
		Description:    strings.TrimSpace(p.Description),
		Amount:         p.Amount,
		DueDate:        p.DueDate,
		Status:         "draft",
	}
	if err := s.invoices.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *billingService) ListInvoices(ctx context.Context, orgID string) ([]*InvoiceView, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	invoices, err := s.invoices.ListInvoices(ctx, orgID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]*InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, &InvoiceView{
			Invoice: *inv,
			Overdue: inv.Status == "sent" && now.After(inv.DueDate),
		})
	}
	return views, nil
}

func (s *billingService) MarkInvoiceSent(ctx context.Context, orgID, invoiceID string) (*dbmysql.Invoice, error) {
	invoice, err := s.ownedInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != "draft" {
		return nil, invalidf("only draft invoices can be sent, this one is %s", invoice.Status)
	}
	invoice.Status = "sent"
	if err := s.invoices.UpdateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *billingService) MarkInvoicePaid(ctx context.Context, orgID, invoiceID string) (*dbmysql.Invoice, error) {
	invoice, err := s.ownedInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == "paid" {
		return invoice, nil // already settled, nothing to do
	}
	now := s.now()
	invoice.Status = "paid"
	invoice.PaidAt = &now
	if err := s.invoices.UpdateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *billingService) CreateExpense(ctx context.Context, p CreateExpenseParams) (*dbmysql.Expense, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if p.Amount <= 0 {
		return nil, invalidf("amount must be positive")
	}
	if p.Category == "" {
		p.Category = "other"
	}
	if !validExpenseCategories[p.Category] {
		return nil, invalidf("unknown expense category %q", p.Category)
	}
	incurred := p.IncurredAt
	if incurred.IsZero() {
		incurred = s.now()
	}
	expense := &dbmysql.Expense{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		PropertyID:     p.PropertyID,
		Category:       p.Category,
		Amount:         p.Amount,
		IncurredAt:     incurred,
		Notes:          p.Notes,
	}
	if err := s.expenses.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *billingService) ListExpenses(ctx context.Context, orgID string) ([]*dbmysql.Expense, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	expenses, err := s.expenses.ListExpenses(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []*dbmysql.Expense{}
	}
	return expenses, nil
}

func (s *billingService) DeleteExpense(ctx context.Context, orgID, expenseID string) error {
	if orgID == "" || expenseID == "" {
		return invalidf("organization id and expense id are required")
	}
	return s.expenses.DeleteExpense(ctx, expenseID)
}

func (s *billingService) MonthSummary(ctx context.Context, orgID string) (*Summary, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	revenue, err := s.invoices.SumPaidInvoices(ctx, orgID, monthStart)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.invoices.SumOutstandingInvoices(ctx, orgID)
	if err != nil {
		return nil, err
	}
	spent, err := s.expenses.SumExpenses(ctx, orgID, monthStart)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.expenses.SumExpensesByCategory(ctx, orgID, monthStart)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Revenue:            revenue,
		Outstanding:        outstanding,
		Expenses:           spent,
		ExpensesByCategory: byCategory,
		Net:                revenue - spent,
	}, nil
}

func (s *billingService) GetSubscription(ctx context.Context, orgID string) (*dbmysql.Subscription, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	sub, err := s.subscriptions.GetSubscriptionByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// every org has a subscription, new ones just haven't picked a plan
		return &dbmysql.Subscription{
			OrganizationID: orgID,
			Plan:           "starter",
			Seats:          1,
			Status:         "active",
		}, nil
	}
	return sub, nil
}

func (s *billingService) ChangePlan(ctx context.Context, orgID, plan string, seats int) (*dbmysql.Subscription, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	if !validPlans[plan] {
		return nil, invalidf("unknown plan %q", plan)
	}
	if seats < 1 {
		return nil, invalidf("seats must be at least 1")
	}
	sub, err := s.subscriptions.GetSubscriptionByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &dbmysql.Subscription{
			ID:             uuid.NewString(),
			OrganizationID: orgID,
			Status:         "active",
		}
	}
	sub.Plan = plan
	sub.Seats = seats
	sub.RenewsAt = s.now().AddDate(0, 1, 0)
	if err := s.subscriptions.UpsertSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *billingService) ownedInvoice(ctx context.Context, orgID, invoiceID string) (*dbmysql.Invoice, error) {
	if orgID == "" || invoiceID == "" {
		return nil, invalidf("organization id and invoice id are required")
	}
	invoice, err := s.invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.OrganizationID != orgID {
		return nil, fmt.Errorf("invoice %w", ErrNotFound)
	}
	return invoice, nil
}
