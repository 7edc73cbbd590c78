package main

import (
	"fmt"
	"log"
	"os"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/config"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/handler"
	"github.com/damoang/angple-revisions/internal/middleware"
	"github.com/damoang/angple-revisions/internal/plugin"
	"github.com/damoang/angple-revisions/internal/ratelimit"
	"github.com/damoang/angple-revisions/internal/repository"
	"github.com/damoang/angple-revisions/internal/routes"
	"github.com/damoang/angple-revisions/internal/service"
	pkgjwt "github.com/damoang/angple-revisions/pkg/jwt"
	pkglogger "github.com/damoang/angple-revisions/pkg/logger"
	pkgredis "github.com/damoang/angple-revisions/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Post{},
		&domain.Topic{},
		&domain.Revision{},
		&domain.Category{},
		&domain.ModerationFlag{},
	); err != nil {
		logger.Warn().Err(err).Msg("migration warning")
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Repositories
	postRepo := repository.NewPostRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	flagRepo := repository.NewFlagRepository(db)

	// Collaborators
	originals := cache.NewOriginalStore(redisClient,
		cfg.Revision.EditGracePeriod.Std(), cfg.Revision.OriginalTTLMargin.Std())
	limiter := ratelimit.NewEditLimiter(redisClient, cfg.Revision.EditsPerMinute)
	guardian := service.NewLevelGuardian(cfg.Revision)
	hooks := plugin.NewHookManager(pkglogger.HookLogger{})
	registerDefaultHooks(hooks)

	// Engine
	policy := service.NewVersionDecisionPolicy(originals, flagRepo, guardian, cfg.Revision)
	store := service.NewRevisionStore(originals, cfg.Revision.HiddenTags)
	registry := service.NewTopicFieldRegistry(guardian, categoryRepo, cfg.Revision)
	engine := service.NewRevisionEngine(
		db, postRepo, topicRepo, revisionRepo,
		policy, store, registry,
		originals, limiter, guardian, hooks,
		cfg.Revision, *logger,
	)
	queries := service.NewRevisionQueryService(revisionRepo, guardian)

	// HTTP
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry.Std())
	revisionHandler := handler.NewRevisionHandler(engine, queries)

	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	routes.Setup(r, revisionHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("listening")
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// registerDefaultHooks wires the built-in post-commit observers. External
// collaborators (notifier, indexer, badge service) register theirs the same
// way.
func registerDefaultHooks(hooks *plugin.HookManager) {
	logger := pkglogger.GetLogger()

	hooks.Register(plugin.HookPostRevised, "audit-log", func(ctx *plugin.HookContext) error {
		logger.Info().Interface("event", ctx.Input).Msg("post revised")
		return nil
	}, 10)

	hooks.Register(plugin.HookTopicTagsChanged, "tag-audit", func(ctx *plugin.HookContext) error {
		logger.Info().Interface("event", ctx.Input).Msg("topic tags changed")
		return nil
	}, 10)
}
