package app

import (
	"gorm.io/gorm"
	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type Services struct {
	MasterModule			services.MasterModuleService
	WorkspaceModule		services.WorkspaceModuleService
	CatalogView				services.CatalogViewService
	Seeder						services.CatalogSeeder
	UserDetail				services.UserDetailProvider
	Notifier					services.ModuleNotifier
	Notifications			services.NotificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var cache services.CatalogCache
	if clients.CatalogCache != nil {
		cache = clients.CatalogCache
	}

	var notifier services.ModuleNotifier
	var notifications services.NotificationService
	if clients.EventBus != nil {
		notifier = services.NewBusNotifier(clients.EventBus, log)
		notifications = services.NewNotificationService(clients.EventBus, log)
	} else {
		notifier = services.NewLogNotifier(log)
		notifications = services.NewLogNotificationService(log)
	}

	userDetail := services.NewUserDetailProvider(db, log)

	return Services{
		MasterModule:			services.NewMasterModuleService(db, log, reposet.MasterModule, reposet.WorkspaceModule),
		WorkspaceModule:	services.NewWorkspaceModuleService(db, log, reposet.MasterModule, reposet.WorkspaceModule, userDetail, cache, notifier),
		CatalogView:			services.NewCatalogViewService(db, log, reposet.MasterModule, reposet.WorkspaceModule, cache),
		Seeder:						services.NewCatalogSeeder(db, log, reposet.MasterModule),
		UserDetail:				userDetail,
		Notifier:					notifier,
		Notifications:		notifications,
	}
}
