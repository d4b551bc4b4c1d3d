package app

import (
	"gorm.io/gorm"
	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
)

type Repos struct {
	MasterModule			repos.MasterModuleRepo
	WorkspaceModule		repos.WorkspaceModuleRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		MasterModule:			repos.NewMasterModuleRepo(db, log),
		WorkspaceModule:	repos.NewWorkspaceModuleRepo(db, log),
	}
}
