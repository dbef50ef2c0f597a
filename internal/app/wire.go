package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
	"github.com/odyssey-erp/odyssey-admin/internal/products"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/reports"
	"github.com/odyssey-erp/odyssey-admin/internal/roles"
	"github.com/odyssey-erp/odyssey-admin/internal/sales"
	"github.com/odyssey-erp/odyssey-admin/internal/users"
)

// Runtime holds the assembled server and the connections it owns.
type Runtime struct {
	Handler http.Handler
	Mongo   *mongo.Client
	Redis   *redis.Client
}

// Close releases the connections.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.Mongo != nil {
		errs = append(errs, r.Mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

// ConnectMongo dials MongoDB and provisions indexes.
func ConnectMongo(ctx context.Context, cfg *Config) (*mongo.Client, *mongo.Database, error) {
	client, err := platformmongo.New(ctx, platformmongo.Options{
		URL:             cfg.MongoURL,
		Database:        cfg.MongoDatabase,
		ConnectTimeout:  cfg.MongoConnectTimeout,
		MaxPoolSize:     cfg.MongoMaxPoolSize,
		MinPoolSize:     cfg.MongoMinPoolSize,
		MaxConnIdleTime: cfg.MongoMaxConnIdleTime,
		RetryAttempts:   cfg.MongoRetryAttempts,
		RetryInterval:   cfg.MongoRetryInterval,
	})
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

// Build connects to the backing services and assembles the HTTP handler.
// The permission registry is upserted into the store before serving.
func Build(ctx context.Context, cfg *Config, logger *slog.Logger) (*Runtime, error) {
	mongoClient, db, err := ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	rt := &Runtime{Mongo: mongoClient}

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("redis unavailable, login throttle and report cache degrade", slog.Any("error", err))
	}
	rt.Redis = redisClient

	registry := rbac.DefaultRegistry()
	routes := rbac.DefaultRouteTable()

	roleRepo := roles.NewRepository(db)
	if err := roleRepo.EnsurePermissions(ctx, registry.Names()); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("provision permissions: %w", err)
	}

	metrics := observability.NewMetrics()
	hasher := auth.BcryptHasher{Cost: cfg.BcryptCost}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, auth.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	userService := users.NewService(users.NewRepository(db), roleRepo, hasher)
	gate, err := rbac.NewGate(auth.NewVerifier(tokens, userService), routes, registry, logger,
		rbac.WithDecisionRecorder(metrics))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("route table: %w", err)
	}

	authService := auth.NewService(userService, userService, hasher, tokens,
		auth.WithThrottle(auth.NewLoginThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginLockoutWindow)),
		auth.WithLoginRecorder(metrics),
		auth.WithLogger(logger))

	productService := products.NewService(products.NewRepository(db))
	salesService := sales.NewService(sales.NewRepository(db), productService)
	reportService := reports.NewService(reports.NewRepository(db), reports.NewCache(redisClient, cfg.ReportCacheTTL))

	rt.Handler = NewRouter(RouterParams{
		Logger:          logger,
		Config:          cfg,
		Metrics:         metrics,
		Health:          platformmongo.Healthcheck(mongoClient),
		AuthHandler:     auth.NewHandler(logger, authService, gate),
		UsersHandler:    users.NewHandler(logger, userService, gate),
		RolesHandler:    roles.NewHandler(logger, roles.NewService(roleRepo), gate),
		ProductsHandler: products.NewHandler(logger, productService, gate),
		SalesHandler:    sales.NewHandler(logger, salesService, gate),
		ReportsHandler:  reports.NewHandler(logger, reportService, gate),
	})
	return rt, nil
}
