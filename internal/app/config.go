package app

import (
	"strings"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecret    string
	CORSOrigins  []string
	RedisAddr    string
	SeedFile     string
	SeedOnBoot   bool
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecret := utils.GetEnv("JWT_SECRET", "defaultsecret", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	seedFile := utils.GetEnv("MODULE_SEED_FILE", "", log)
	seedOnBoot := utils.GetEnvAsBool("SEED_ON_BOOT", true, log)

	var origins []string
	for _, origin := range strings.Split(corsOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return Config{
		Port:        port,
		JWTSecret:   jwtSecret,
		CORSOrigins: origins,
		RedisAddr:   redisAddr,
		SeedFile:    seedFile,
		SeedOnBoot:  seedOnBoot,
	}
}
