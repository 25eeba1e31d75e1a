package main

import (
	"context"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/school-portal-service/config"
	"github.com/kinkando/school-portal-service/http"
	"github.com/kinkando/school-portal-service/pkg/database/mongodb"
	"github.com/kinkando/school-portal-service/pkg/database/redis"
	"github.com/kinkando/school-portal-service/pkg/envconfig"
	"github.com/kinkando/school-portal-service/pkg/http/cookie"
	httpmiddleware "github.com/kinkando/school-portal-service/pkg/http/middleware"
	httpserver "github.com/kinkando/school-portal-service/pkg/http/server"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/repository"
	"github.com/kinkando/school-portal-service/service"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	var cfg config.Config
	if err := envconfig.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	logger.New(cfg.App.Environment)
	defer logger.Sync()

	tokenService, err := service.NewTokenService(cfg.App.JWTKey, cfg.App.TokenExpired)
	if err != nil {
		logger.Fatalf("config: %s", err.Error())
	}

	mongoClient := mongodb.New(
		mongodb.WithURI(cfg.MongoDB.URI),
		mongodb.WithAppName("school-portal-service"),
		mongodb.WithMaxPoolSize(cfg.MongoDB.MaxPoolSize),
		mongodb.WithConnectTimeout(cfg.MongoDB.ConnectTimeout),
	)
	defer mongodb.Shutdown(mongoClient)
	db := mongoClient.Database(cfg.MongoDB.Database)

	var (
		redisClient     *goredis.Client
		sessionRegistry repository.SessionRegistry
	)
	if cfg.App.SessionRegistry {
		redisClient = redis.NewClient(
			redis.WithHost(cfg.Redis.Host),
			redis.WithPort(cfg.Redis.Port),
			redis.WithUsername(cfg.Redis.Username),
			redis.WithPassword(cfg.Redis.Password),
			redis.WithDB(cfg.Redis.DB),
		)
		defer redis.Shutdown(redisClient)
		sessionRegistry = repository.NewSessionRegistryRepository(redisClient)
	}

	userRepository := repository.NewUserRepository(db)
	auditRepository := repository.NewAuditRepository(db)
	schoolRepository := repository.NewSchoolRepository(db)

	sessionService := service.NewSessionService(tokenService, sessionRegistry)
	authenService := service.NewAuthenService(userRepository, auditRepository, sessionService)
	userService := service.NewUserService(userRepository)
	dashboardService := service.NewDashboardService(userRepository, schoolRepository)

	bootstrap(userRepository, userService, cfg.App.Admin)

	jar := cookie.Jar{Secure: cfg.App.IsProduction(), MaxAge: tokenService.TTL()}
	guard := httpmiddleware.DefaultGuardConfig
	guard.Cookie = jar

	httpServer := httpserver.New(
		httpserver.WithPort(cfg.App.Port),
		httpserver.WithCORSConfig(&httpserver.CORSConfig{
			AllowOrigins:     cfg.App.AllowOrigins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
			AllowMethods:     []string{echo.GET, echo.HEAD, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
			AllowCredentials: true,
		}),
		httpserver.WithMiddlewares([]echo.MiddlewareFunc{
			httpmiddleware.NewSessionProvider(sessionService),
			httpmiddleware.NewRouteGuard(guard),
		}),
	)

	e := httpServer.Routers()
	validate := validator.New()

	http.NewHealthzHandler(e, mongoClient, redisClient)
	http.NewAuthenHandler(e, validate, jar, cfg.App.LoginRateLimit, authenService)
	http.NewAdminHandler(e, validate, jar, authenService, userService, dashboardService)
	http.NewDashboardHandler(e, dashboardService)
	http.NewUserHandler(e, userService)

	httpServer.ListenAndServe()
	httpServer.GracefulShutdown()
}

func bootstrap(userRepository repository.User, userService service.User, admin config.AdminSeedConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := userRepository.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("mongodb: ensure indexes: %s", err.Error())
	}

	if err := userService.SeedAdmin(ctx, admin); err != nil {
		logger.Fatalf("seed admin: %s", err.Error())
	}
}
