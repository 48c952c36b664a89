package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/database"
	"rbi-data/internal/domain"
	httpapi "rbi-data/internal/http"
	"rbi-data/internal/logger"
	"rbi-data/internal/repository"
	"rbi-data/internal/service"
	"rbi-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// devTenantID fixed tenant for local development seeding.
const devTenantID = "00000000-0000-0000-0000-000000000001"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "rbi-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)
	limiter := store.NewRedisRateLimiter(redisClient, "ratelimit", cfg.RateLimit.Window, cfg.RateLimit.Threshold)

	// Optional DB; local dev falls back to in-memory repositories with a
	// seeded NCR slice and a dev admin so the UI works end to end.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("database connected", zap.String("host", cfg.Database.Host))
		} else {
			log.Warn("database enabled but connection failed, using in-memory repositories", zap.Error(err))
		}
	}

	var (
		residentsRepo  repository.ResidentsRepository
		householdsRepo repository.HouseholdsRepository
		psgcRepo       repository.PSGCRepository
		usersRepo      repository.UsersRepository
		tenantsRepo    repository.TenantsRepository
	)
	if db != nil {
		residentsRepo = repository.NewPostgresResidentsRepository(db)
		householdsRepo = repository.NewPostgresHouseholdsRepository(db)
		psgcRepo = repository.NewPostgresPSGCRepository(db)
		usersRepo = repository.NewPostgresUsersRepository(db)
		tenantsRepo = repository.NewPostgresTenantsRepository(db)
	} else {
		memResidents := repository.NewMemoryResidentsRepository()
		residentsRepo = memResidents
		householdsRepo = repository.NewMemoryHouseholdsRepository(memResidents)
		psgcRepo = repository.NewMemoryPSGCRepository()
		memUsers := repository.NewMemoryUsersRepository()
		memTenants := repository.NewMemoryTenantsRepository()
		seedDevAdmin(memUsers, memTenants, log)
		usersRepo = memUsers
		tenantsRepo = memTenants
	}

	authService := service.NewAuthService(usersRepo, kv, cfg.Auth, log)
	tenantService := service.NewTenantService(tenantsRepo, psgcRepo, log)
	userService := service.NewUserService(usersRepo, log)
	residentService := service.NewResidentService(residentsRepo, householdsRepo, psgcRepo, log)
	householdService := service.NewHouseholdService(householdsRepo, residentsRepo, psgcRepo, log)
	psgcClient := service.NewPSGCClient(cfg.PSGC)
	psgcService := service.NewPSGCService(psgcRepo, psgcClient, log)
	statsService := service.NewStatsService(residentsRepo, kv, log)
	reportService := service.NewReportService(residentsRepo, householdsRepo, psgcRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterRoutes(&httpapi.Handlers{
		Auth:      httpapi.NewAuthHandler(authService, tenantService, limiter, log),
		Resident:  httpapi.NewResidentHandler(residentService, statsService, authService, log),
		Household: httpapi.NewHouseholdHandler(householdService, authService, log),
		PSGC:      httpapi.NewPSGCHandler(psgcService, authService, log),
		Stats:     httpapi.NewStatsHandler(statsService, authService, log),
		Report:    httpapi.NewReportHandler(reportService, authService, log),
		User:      httpapi.NewUserHandler(userService, authService, log),
		Tenant:    httpapi.NewTenantHandler(tenantService, authService, log),
	})

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

// seedDevAdmin creates the dev LGU tenant and an LGUAdmin login
// (admin / ChangeMe123!) for in-memory mode.
func seedDevAdmin(users *repository.MemoryUsersRepository, tenants *repository.MemoryTenantsRepository, log *zap.Logger) {
	if os.Getenv("SEED_DEV_ADMIN") == "false" {
		return
	}
	ctx := context.Background()

	_, _ = tenants.CreateTenant(ctx, &domain.Tenant{
		TenantID:   devTenantID,
		TenantName: "City of Manila (dev)",
		CityCode:   "1380600000",
		Status:     "active",
	})

	passwordHash, err := service.HashPassword("ChangeMe123!")
	if err != nil {
		log.Warn("failed to seed dev admin", zap.Error(err))
		return
	}
	_, err = users.CreateUser(ctx, devTenantID, &domain.User{
		UserAccount:     "admin",
		UserAccountHash: service.HashAccount("admin"),
		PasswordHash:    passwordHash,
		Role:            domain.RoleLGUAdmin,
		Status:          "active",
	})
	if err != nil {
		log.Warn("failed to seed dev admin", zap.Error(err))
		return
	}
	log.Info("dev admin seeded", zap.String("tenant_id", devTenantID), zap.String("account", "admin"))
}
