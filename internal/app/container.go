package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"designmatch/internal/config"
	"designmatch/internal/database"
	"designmatch/internal/database/migration"
	dbpostgres "designmatch/internal/database/postgres"
	"designmatch/internal/database/seeder"
	"designmatch/internal/infrastructure/cache"
	"designmatch/internal/infrastructure/completion"
	"designmatch/internal/pkg/jwt"
	"designmatch/internal/repository"
	"designmatch/internal/usecase"
	"designmatch/internal/ws"
)

// Container owns every long-lived dependency.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	JWT jwt.Service

	Auth      usecase.AuthUsecase
	Briefs    usecase.BriefUsecase
	Designers usecase.DesignerUsecase
	Matches   usecase.MatchUsecase
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migration.Default().Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)
	hub := ws.NewHub(logger)

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)

	clientRepo := repository.NewPostgresClientRepository(db)
	codeRepo := repository.NewPostgresLoginCodeRepository(db)
	briefRepo := repository.NewPostgresBriefRepository(db)
	designerRepo := repository.NewPostgresDesignerRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)

	if cfg.App.IsDevelopment() {
		if err := seeder.Seed(ctx, designerRepo, logger); err != nil {
			logger.Warn("designer seeding failed", zap.Error(err))
		}
	}

	var aiScorer usecase.CandidateScorer
	if cfg.Matching.ScorerMode != config.ScorerModeRules {
		client := completion.NewAnthropic(cfg.Anthropic, logger)
		aiScorer = usecase.NewAIScorer(client, cfg.Matching, cfg.Anthropic, logger)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,
		JWT:    jwtSvc,
	}

	c.Auth = usecase.NewAuthUsecase(
		clientRepo,
		codeRepo,
		usecase.LogCodeSender{Logger: logger},
		jwtSvc,
		cfg.Auth.CodeTTL,
		logger,
	)
	c.Briefs = usecase.NewBriefUsecase(briefRepo)
	c.Designers = usecase.NewDesignerUsecase(designerRepo, logger)
	c.Matches = usecase.NewMatchUsecase(
		briefRepo,
		designerRepo,
		matchRepo,
		aiScorer,
		redisCache,
		ws.NewNotifier(hub),
		cfg.Matching,
		cfg.Redis.ResultTTL,
		logger,
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
