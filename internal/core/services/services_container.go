package services

import (
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
)

// RepositoryProvider bundles the repositories the service layer is built on.
type RepositoryProvider struct {
	PriceRules       portsrepo.PriceRuleRepositoryFacade
	Invoices         portsrepo.InvoiceRepositoryWithTx
	Expenses         portsrepo.ExpenseRepositoryFacade
	WorkUnits        portsrepo.WorkUnitRepositoryFacade
	Bookings         portsrepo.BookingRepositoryFacade
	FinancialPeriods portsrepo.FinancialPeriodRepositoryFacade
	Scope            portsrepo.ScopeRepositoryFacade
}

// NewServiceContainer wires all services with their repository dependencies.
func NewServiceContainer(repos RepositoryProvider, notifier portssvc.NotifierSvc) *portssvc.ServiceContainer {
	if notifier == nil {
		notifier = NewLogNotifier()
	}

	pricingSvc := NewPricingService(repos.PriceRules)
	scopeSvc := NewScopeService(repos.Scope)

	return &portssvc.ServiceContainer{
		Pricing:   pricingSvc,
		Invoice:   NewInvoiceService(repos.Invoices, repos.WorkUnits, pricingSvc, notifier),
		Expense:   NewExpenseService(repos.Expenses),
		Reporting: NewReportingService(repos.Invoices, repos.Expenses, repos.Bookings, repos.FinancialPeriods, scopeSvc),
		Scope:     scopeSvc,
	}
}
