package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, invoice *dbmysql.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (*dbmysql.Invoice, error)
	ListInvoices(ctx context.Context, organizationID string) ([]*dbmysql.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *dbmysql.Invoice) error
	CountInvoices(ctx context.Context, organizationID string) (int64, error)
	SumPaidInvoices(ctx context.Context, organizationID string, since time.Time) (int64, error)
	SumOutstandingInvoices(ctx context.Context, organizationID string) (int64, error)
}

type ExpenseRepository interface {
	CreateExpense(ctx context.Context, expense *dbmysql.Expense) error
	ListExpenses(ctx context.Context, organizationID string) ([]*dbmysql.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	SumExpenses(ctx context.Context, organizationID string, since time.Time) (int64, error)
	SumExpensesByCategory(ctx context.Context, organizationID string, since time.Time) (map[string]int64, error)
}

type SubscriptionRepository interface {
	GetSubscriptionByOrg(ctx context.Context, organizationID string) (*dbmysql.Subscription, error)
	UpsertSubscription(ctx context.Context, sub *dbmysql.Subscription) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice *dbmysql.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*dbmysql.Invoice, error) {
	var invoice dbmysql.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListInvoices(ctx context.Context, organizationID string) ([]*dbmysql.Invoice, error) {
	var invoices []*dbmysql.Invoice
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("due_date DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) UpdateInvoice(ctx context.Context, invoice *dbmysql.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) CountInvoices(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Invoice{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) SumPaidInvoices(ctx context.Context, organizationID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Invoice{}).
		Where("organization_id = ? AND status = ? AND paid_at >= ?", organizationID, "paid", since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *invoiceRepository) SumOutstandingInvoices(ctx context.Context, organizationID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Invoice{}).
		Where("organization_id = ? AND status = ?", organizationID, "sent").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) CreateExpense(ctx context.Context, expense *dbmysql.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) ListExpenses(ctx context.Context, organizationID string) ([]*dbmysql.Expense, error) {
	var expenses []*dbmysql.Expense
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("incurred_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) SumExpenses(ctx context.Context, organizationID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Expense{}).
		Where("organization_id = ? AND incurred_at >= ?", organizationID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *expenseRepository) SumExpensesByCategory(ctx context.Context, organizationID string, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&dbmysql.Expense{}).
		Where("organization_id = ? AND incurred_at >= ?", organizationID, since).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.Total
	}
	return totals, nil
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetSubscriptionByOrg(ctx context.Context, organizationID string) (*dbmysql.Subscription, error) {
	var sub dbmysql.Subscription
	err := r.db.WithContext(ctx).First(&sub, "organization_id = ?", organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) UpsertSubscription(ctx context.Context, sub *dbmysql.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
