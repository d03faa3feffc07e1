package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
)

// --- Mock PriceRuleRepository ---

type MockPriceRuleRepository struct {
	mock.Mock
}

func (m *MockPriceRuleRepository) SavePriceRule(ctx context.Context, rule domain.PriceRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPriceRuleRepository) UpdatePriceRule(ctx context.Context, rule domain.PriceRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPriceRuleRepository) DeletePriceRule(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

func (m *MockPriceRuleRepository) FindPriceRuleByID(ctx context.Context, ruleID string) (*domain.PriceRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceRule), args.Error(1)
}

func (m *MockPriceRuleRepository) FindRuleForService(ctx context.Context, serviceType domain.ServiceType, propertyID *string) (*domain.PriceRule, error) {
	args := m.Called(ctx, serviceType, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceRule), args.Error(1)
}

func (m *MockPriceRuleRepository) ListPriceRules(ctx context.Context, propertyID *string) ([]domain.PriceRule, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceRule), args.Error(1)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateDraftInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindItemsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) AddInvoiceItem(ctx context.Context, invoiceID string, item domain.InvoiceItem) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) RemoveInvoiceItem(ctx context.Context, invoiceID, itemID string, actor string, now time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, itemID, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) RecalculateTotals(ctx context.Context, invoiceID string, actor string, now time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, allowedFrom []domain.InvoiceStatus, to domain.InvoiceStatus, requireItems bool, stamp portsrepo.StatusStamp, actor string, now time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, allowedFrom, to, requireItems, stamp, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SweepOverdue(ctx context.Context, now time.Time, actor string) ([]domain.Invoice, error) {
	args := m.Called(ctx, now, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaidInvoicesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, propertyIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaidItemAmountsByWorker(ctx context.Context, workerID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actor string, now time.Time) error {
	args := m.Called(ctx, expenseID, status, actor, now)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseListFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindPaidExpensesInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Expense, error) {
	args := m.Called(ctx, propertyIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

// --- Mock WorkUnitRepository ---

type MockWorkUnitRepository struct {
	mock.Mock
}

func (m *MockWorkUnitRepository) FindWorkUnitByID(ctx context.Context, workUnitID string) (*domain.WorkUnit, error) {
	args := m.Called(ctx, workUnitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkUnit), args.Error(1)
}

func (m *MockWorkUnitRepository) FindCompletedUnbilled(ctx context.Context, propertyID string, from, to time.Time) ([]domain.WorkUnit, error) {
	args := m.Called(ctx, propertyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkUnit), args.Error(1)
}

// --- Mock BookingRepository ---

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindBookingsInRange(ctx context.Context, propertyIDs []string, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// --- Mock FinancialPeriodRepository ---

type MockFinancialPeriodRepository struct {
	mock.Mock
}

func (m *MockFinancialPeriodRepository) SaveFinancialPeriod(ctx context.Context, period domain.FinancialPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFinancialPeriodRepository) FindFinancialPeriod(ctx context.Context, propertyID *string, periodType domain.PeriodType, startDate time.Time) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, propertyID, periodType, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

// --- Mock ScopeRepository ---

type MockScopeRepository struct {
	mock.Mock
}

func (m *MockScopeRepository) FindOwnedProperties(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockScopeRepository) FindManagedProperties(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockScopeRepository) FindProvidersForProperties(ctx context.Context, propertyIDs []string) ([]string, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event portssvc.BillingEvent) {
	m.Called(ctx, event)
}
