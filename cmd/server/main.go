package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/db"
	"github.com/Driftline-Labs/papercast/internal/http/middleware"
	"github.com/Driftline-Labs/papercast/internal/redis"
	"github.com/Driftline-Labs/papercast/internal/schedule"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	env := LoadEnvironment()
	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore()

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		log.Info().Str("address", env.RedisAddress).Msg("display cache enabled")
	}

	if env.MQTTBrokerURL != "" {
		if err := middleware.InitTelemetry(env.MQTTBrokerURL); err != nil {
			log.Warn().Err(err).Msg("telemetry broker unavailable, continuing without it")
		}
		defer middleware.CleanupTelemetry()
	}

	if env.SchedulePath != "" {
		schedule.InitGlobal(env.SchedulePath)
	}

	storageSystem := InitStorage(env)

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
