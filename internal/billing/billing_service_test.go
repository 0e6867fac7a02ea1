package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/dbmysql"
)

type fakeInvoiceRepo struct {
	createFn  func(ctx context.Context, inv *dbmysql.Invoice) error
	getFn     func(ctx context.Context, id string) (*dbmysql.Invoice, error)
	listFn    func(ctx context.Context, orgID string) ([]*dbmysql.Invoice, error)
	updateFn  func(ctx context.Context, inv *dbmysql.Invoice) error
	countFn   func(ctx context.Context, orgID string) (int64, error)
	sumPaidFn func(ctx context.Context, orgID string, since time.Time) (int64, error)
	sumOutFn  func(ctx context.Context, orgID string) (int64, error)
}

func (f *fakeInvoiceRepo) CreateInvoice(ctx context.Context, inv *dbmysql.Invoice) error {
	if f.createFn != nil {
		return f.createFn(ctx, inv)
	}
	return nil
}
func (f *fakeInvoiceRepo) GetInvoiceByID(ctx context.Context, id string) (*dbmysql.Invoice, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeInvoiceRepo) ListInvoices(ctx context.Context, orgID string) ([]*dbmysql.Invoice, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeInvoiceRepo) UpdateInvoice(ctx context.Context, inv *dbmysql.Invoice) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inv)
	}
	return nil
}
func (f *fakeInvoiceRepo) CountInvoices(ctx context.Context, orgID string) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, orgID)
	}
	return 0, nil
}
func (f *fakeInvoiceRepo) SumPaidInvoices(ctx context.Context, orgID string, since time.Time) (int64, error) {
	if f.sumPaidFn != nil {
		return f.sumPaidFn(ctx, orgID, since)
	}
	return 0, nil
}
func (f *fakeInvoiceRepo) SumOutstandingInvoices(ctx context.Context, orgID string) (int64, error) {
	if f.sumOutFn != nil {
		return f.sumOutFn(ctx, orgID)
	}
	return 0, nil
}

type fakeExpenseRepo struct {
	createFn func(ctx context.Context, e *dbmysql.Expense) error
	listFn   func(ctx context.Context, orgID string) ([]*dbmysql.Expense, error)
	sumFn    func(ctx context.Context, orgID string, since time.Time) (int64, error)
	sumCatFn func(ctx context.Context, orgID string, since time.Time) (map[string]int64, error)
}

func (f *fakeExpenseRepo) CreateExpense(ctx context.Context, e *dbmysql.Expense) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}
func (f *fakeExpenseRepo) ListExpenses(ctx context.Context, orgID string) ([]*dbmysql.Expense, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeExpenseRepo) DeleteExpense(ctx context.Context, id string) error { return nil }
func (f *fakeExpenseRepo) SumExpenses(ctx context.Context, orgID string, since time.Time) (int64, error) {
	if f.sumFn != nil {
		return f.sumFn(ctx, orgID, since)
	}
	return 0, nil
}
func (f *fakeExpenseRepo) SumExpensesByCategory(ctx context.Context, orgID string, since time.Time) (map[string]int64, error) {
	if f.sumCatFn != nil {
		return f.sumCatFn(ctx, orgID, since)
	}
	return map[string]int64{}, nil
}

type fakeSubscriptionRepo struct {
	getFn    func(ctx context.Context, orgID string) (*dbmysql.Subscription, error)
	upsertFn func(ctx context.Context, sub *dbmysql.Subscription) error
}

func (f *fakeSubscriptionRepo) GetSubscriptionByOrg(ctx context.Context, orgID string) (*dbmysql.Subscription, error) {
	if f.getFn != nil {
		return f.getFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeSubscriptionRepo) UpsertSubscription(ctx context.Context, sub *dbmysql.Subscription) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, sub)
	}
	return nil
}

func newBillingService(inv *fakeInvoiceRepo, exp *fakeExpenseRepo, sub *fakeSubscriptionRepo, now time.Time) *billingService {
	if inv == nil {
		inv = &fakeInvoiceRepo{}
	}
	if exp == nil {
		exp = &fakeExpenseRepo{}
	}
	if sub == nil {
		sub = &fakeSubscriptionRepo{}
	}
	svc := NewBillingService(inv, exp, sub).(*billingService)
	if !now.IsZero() {
		svc.now = func() time.Time { return now }
	}
	return svc
}

func TestCreateInvoiceNumbering(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	var saved *dbmysql.Invoice
	inv := &fakeInvoiceRepo{
		countFn:  func(_ context.Context, _ string) (int64, error) { return 41, nil },
		createFn: func(_ context.Context, i *dbmysql.Invoice) error { saved = i; return nil },
	}
	svc := newBillingService(inv, nil, nil, now)

	invoice, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{
		OrganizationID: "org-1",
		Amount:         120000,
		DueDate:        now.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "INV-202603-0042", invoice.Number)
	assert.Equal(t, "draft", invoice.Status)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newBillingService(nil, nil, nil, time.Time{})

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceParams{OrganizationID: "org-1", Amount: 0, DueDate: time.Now()})
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = svc.CreateInvoice(context.Background(), CreateInvoiceParams{OrganizationID: "org-1", Amount: 100})
	assert.True(t, errors.Is(err, ErrInvalid), "zero due date should be rejected")
}

func TestListInvoicesOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	inv := &fakeInvoiceRepo{listFn: func(_ context.Context, _ string) ([]*dbmysql.Invoice, error) {
		return []*dbmysql.Invoice{
			{ID: "i-1", Status: "sent", DueDate: now.AddDate(0, 0, -3)},
			{ID: "i-2", Status: "sent", DueDate: now.AddDate(0, 0, 3)},
			{ID: "i-3", Status: "paid", DueDate: now.AddDate(0, 0, -3)},
			{ID: "i-4", Status: "draft", DueDate: now.AddDate(0, 0, -3)},
		}, nil
	}}
	svc := newBillingService(inv, nil, nil, now)

	views, err := svc.ListInvoices(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, views, 4)
	assert.True(t, views[0].Overdue, "sent past due date")
	assert.False(t, views[1].Overdue, "sent but not due yet")
	assert.False(t, views[2].Overdue, "paid invoices are never overdue")
	assert.False(t, views[3].Overdue, "drafts are never overdue")
}

func TestMarkInvoiceSent(t *testing.T) {
	invoice := &dbmysql.Invoice{ID: "i-1", OrganizationID: "org-1", Status: "draft"}
	inv := &fakeInvoiceRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Invoice, error) {
		return invoice, nil
	}}
	svc := newBillingService(inv, nil, nil, time.Time{})

	got, err := svc.MarkInvoiceSent(context.Background(), "org-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, "sent", got.Status)

	// second send is rejected, the invoice already left draft
	_, err = svc.MarkInvoiceSent(context.Background(), "org-1", "i-1")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestMarkInvoicePaidIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	invoice := &dbmysql.Invoice{ID: "i-1", OrganizationID: "org-1", Status: "sent"}
	var updates int
	inv := &fakeInvoiceRepo{
		getFn:    func(_ context.Context, _ string) (*dbmysql.Invoice, error) { return invoice, nil },
		updateFn: func(_ context.Context, _ *dbmysql.Invoice) error { updates++; return nil },
	}
	svc := newBillingService(inv, nil, nil, now)

	got, err := svc.MarkInvoicePaid(context.Background(), "org-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, now, *got.PaidAt)

	_, err = svc.MarkInvoicePaid(context.Background(), "org-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updates, "paying twice must not rewrite the row")
}

func TestMonthSummary(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	inv := &fakeInvoiceRepo{
		sumPaidFn: func(_ context.Context, _ string, since time.Time) (int64, error) {
			assert.Equal(t, monthStart, since)
			return 500000, nil
		},
		sumOutFn: func(_ context.Context, _ string) (int64, error) { return 75000, nil },
	}
	exp := &fakeExpenseRepo{
		sumFn: func(_ context.Context, _ string, since time.Time) (int64, error) {
			assert.Equal(t, monthStart, since)
			return 180000, nil
		},
		sumCatFn: func(_ context.Context, _ string, _ time.Time) (map[string]int64, error) {
			return map[string]int64{"maintenance": 150000, "utilities": 30000}, nil
		},
	}
	svc := newBillingService(inv, exp, nil, now)

	summary, err := svc.MonthSummary(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), summary.Revenue)
	assert.Equal(t, int64(75000), summary.Outstanding)
	assert.Equal(t, int64(180000), summary.Expenses)
	assert.Equal(t, int64(150000), summary.ExpensesByCategory["maintenance"])
	assert.Equal(t, int64(320000), summary.Net)
}

func TestGetSubscriptionDefaults(t *testing.T) {
	svc := newBillingService(nil, nil, &fakeSubscriptionRepo{}, time.Time{})

	sub, err := svc.GetSubscription(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "starter", sub.Plan)
	assert.Equal(t, 1, sub.Seats)
}

func TestChangePlan(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("creates subscription on first change", func(t *testing.T) {
		var saved *dbmysql.Subscription
		subs := &fakeSubscriptionRepo{upsertFn: func(_ context.Context, s *dbmysql.Subscription) error {
			saved = s
			return nil
		}}
		svc := newBillingService(nil, nil, subs, now)

		sub, err := svc.ChangePlan(context.Background(), "org-1", "growth", 5)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "growth", sub.Plan)
		assert.Equal(t, 5, sub.Seats)
		assert.Equal(t, now.AddDate(0, 1, 0), sub.RenewsAt)
	})

	t.Run("rejects unknown plan", func(t *testing.T) {
		svc := newBillingService(nil, nil, nil, now)
		_, err := svc.ChangePlan(context.Background(), "org-1", "enterprise", 5)
		assert.True(t, errors.Is(err, ErrInvalid))
	})

	t.Run("rejects zero seats", func(t *testing.T) {
		svc := newBillingService(nil, nil, nil, now)
		_, err := svc.ChangePlan(context.Background(), "org-1", "growth", 0)
		assert.True(t, errors.Is(err, ErrInvalid))
	})
}

func TestExpenseCategory(t *testing.T) {
	svc := newBillingService(nil, &fakeExpenseRepo{}, nil, time.Time{})

	expense, err := svc.CreateExpense(context.Background(), CreateExpenseParams{
		OrganizationID: "org-1",
		Amount:         5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "other", expense.Category)
	assert.False(t, expense.IncurredAt.IsZero())

	_, err = svc.CreateExpense(context.Background(), CreateExpenseParams{
		OrganizationID: "org-1",
		Amount:         5000,
		Category:       "bribes",
	})
	assert.True(t, errors.Is(err, ErrInvalid))
}
