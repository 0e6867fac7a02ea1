package di

import (
	"time"

	"gorm.io/gorm"

	"rentdesk/internal/billing"
	chathandler "rentdesk/internal/chat/handler"
	"rentdesk/internal/common"
	"rentdesk/internal/config"
	"rentdesk/internal/dbmysql"
	"rentdesk/internal/leasing"
	"rentdesk/internal/notify"
	"rentdesk/internal/portfolio"
)

// Application bundles everything cmd/api needs after wiring.
type Application struct {
	Config           *config.Config
	DB               *gorm.DB
	Dispatcher       *notify.Manager
	ChatHandler      *chathandler.ChatHandler
	PortfolioHandler *portfolio.Handler
	LeasingHandler   *leasing.Handler
	BillingHandler   *billing.Handler
	NotifyHandler    *notify.Handler
}

func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	return dbmysql.NewMySQL(cfg)
}

// ProvideDispatcher builds the event fan-out with its standing observers:
// logging always, persistence always, email only when configured.
func ProvideDispatcher(cfg *config.Config, repo notify.NotificationRepository) *notify.Manager {
	manager := notify.NewManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)
	manager.Subscribe(notify.LogObserver{})
	manager.Subscribe(notify.NewDatabaseObserver(repo))
	if email := notify.NewEmailService(cfg.Email); email != nil {
		manager.Subscribe(notify.NewEmailObserver(email, cfg.Email.FromEmail))
	}
	return manager
}

func ProvideSubject(manager *notify.Manager) common.Subject {
	return manager
}

func ProvideLeasingService(
	cfg *config.Config,
	listings leasing.ListingRepository,
	applications leasing.ApplicationRepository,
	invites leasing.InviteRepository,
	units portfolio.UnitRepository,
	dispatcher common.Subject,
) leasing.LeasingService {
	return leasing.NewLeasingService(
		listings,
		applications,
		invites,
		units,
		dispatcher,
		time.Duration(cfg.Invite.TTLHours)*time.Hour,
		cfg.Server.PublicOrigin,
	)
}
