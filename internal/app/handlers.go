package app

import (
	"github.com/yungbote/storefront-backend/internal/handlers"
	"github.com/yungbote/storefront-backend/internal/logger"
)

type Handlers struct {
	MasterModule			*handlers.MasterModuleHandler
	WorkspaceModule		*handlers.WorkspaceModuleHandler
	Catalog						*handlers.CatalogHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		MasterModule:			handlers.NewMasterModuleHandler(log, serviceset.MasterModule),
		WorkspaceModule:	handlers.NewWorkspaceModuleHandler(log, serviceset.WorkspaceModule),
		Catalog:					handlers.NewCatalogHandler(log, serviceset.CatalogView),
	}
}
