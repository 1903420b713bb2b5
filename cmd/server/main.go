package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"pulsefit/fitness-tracker/internal/api"
	"pulsefit/fitness-tracker/internal/cache"
	"pulsefit/fitness-tracker/internal/config"
	"pulsefit/fitness-tracker/internal/genai"
	"pulsefit/fitness-tracker/internal/repository/mongo"
	"pulsefit/fitness-tracker/internal/service"
	"pulsefit/fitness-tracker/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger.Info().Msg("starting fitness tracker server")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info().Str("database", cfg.Database.Name).Msg("database connection established")

	// Index creation runs in the background so startup is not blocked by a
	// slow or cold database.
	go ensureIndexes(appDB, logger.With().Str("component", "indexes").Logger())

	// Cache is optional. Without a Redis address every lookup is a miss.
	var store cache.Cache = cache.NewNoopCache()
	if cfg.Redis.Addr != "" {
		redisCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedisCache(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			store = redisCache
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache connected")
		}
	}

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	} else {
		logger.Warn().Msg("object storage not configured, photo endpoints disabled")
	}

	generator := genai.NewHTTPGenerator(cfg.GenAI, logger.With().Str("component", "genai").Logger())

	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	weekRepo := mongo.NewMongoPlanWeekRepository(appDB)
	dayRepo := mongo.NewMongoPlanDayRepository(appDB)
	entryRepo := mongo.NewMongoPlanExerciseRepository(appDB)
	logRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)

	svcs := api.Services{
		Auth:       service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		User:       service.NewUserService(userRepo, profileRepo),
		Exercise:   service.NewExerciseService(exerciseRepo),
		Workout:    service.NewWorkoutService(planRepo, weekRepo, dayRepo, entryRepo, exerciseRepo),
		WorkoutLog: service.NewWorkoutLogService(logRepo, planRepo, exerciseRepo),
		Progress:   service.NewProgressService(progressRepo, fileStorage),
		Planner: service.NewPlannerService(
			generator, profileRepo, exerciseRepo, planRepo, weekRepo, dayRepo, entryRepo,
			logger.With().Str("component", "planner").Logger(),
		),
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, svcs, store)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Address).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen and serve error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exiting")
}

// ensureIndexes creates every collection index, logging failures instead of
// aborting startup.
func ensureIndexes(db *mongodriver.Database, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	ensure := map[string]func(context.Context, *mongodriver.Collection) error{
		"users":                  mongo.EnsureUserIndexes,
		"user_profiles":          mongo.EnsureProfileIndexes,
		"exercises":              mongo.EnsureExerciseIndexes,
		"workout_plans":          mongo.EnsurePlanIndexes,
		"workout_plan_weeks":     mongo.EnsureWeekIndexes,
		"workout_plan_days":      mongo.EnsureDayIndexes,
		"workout_plan_exercises": mongo.EnsurePlanExerciseIndexes,
		"workout_logs":           mongo.EnsureLogIndexes,
		"progress":               mongo.EnsureProgressIndexes,
	}
	for collection, fn := range ensure {
		if err := fn(ctx, db.Collection(collection)); err != nil {
			logger.Error().Err(err).Str("collection", collection).Msg("index creation failed")
		}
	}
	logger.Info().Msg("index creation completed")
}
