//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"rentdesk/internal/billing"
	chathandler "rentdesk/internal/chat/handler"
	"rentdesk/internal/chat/repository"
	"rentdesk/internal/chat/service"
	"rentdesk/internal/config"
	"rentdesk/internal/leasing"
	"rentdesk/internal/notify"
	"rentdesk/internal/portfolio"
)

// InitializeAPI wires the whole HTTP application. Wire generates the real
// body in wire_gen.go.
func InitializeAPI(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		ProvideDB,
		ProvideDispatcher,
		ProvideSubject,

		repository.NewChatRepository,
		service.NewChatService,
		chathandler.NewChatHandler,

		portfolio.NewPropertyRepository,
		portfolio.NewUnitRepository,
		portfolio.NewTenantRepository,
		portfolio.NewPortfolioService,
		portfolio.NewHandler,

		leasing.NewListingRepository,
		leasing.NewApplicationRepository,
		leasing.NewInviteRepository,
		ProvideLeasingService,
		leasing.NewHandler,

		billing.NewInvoiceRepository,
		billing.NewExpenseRepository,
		billing.NewSubscriptionRepository,
		billing.NewBillingService,
		billing.NewHandler,

		notify.NewNotificationRepository,
		notify.NewHandler,

		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
