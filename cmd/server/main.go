package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/yoneltic/internal/cache"
	"github.com/Skotchmaster/yoneltic/internal/config"
	"github.com/Skotchmaster/yoneltic/internal/httpserver"
	"github.com/Skotchmaster/yoneltic/internal/imagehost"
	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/search"
	"github.com/Skotchmaster/yoneltic/internal/service"
	pkgdb "github.com/Skotchmaster/yoneltic/pkg/db"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
	middleware "github.com/Skotchmaster/yoneltic/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/yoneltic/pkg/middleware/logging"
	"github.com/Skotchmaster/yoneltic/pkg/middleware/ratelimit"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	images, err := imagehost.NewCloudinary(cfg.Cloudinary)
	if err != nil {
		log.Fatalf("image host: %v", err)
	}

	store := &repo.GormRepo{DB: db}
	categories := &service.CategoryService{Repo: store}
	catalog := &service.CatalogService{Repo: store, Images: images}
	categories.Reindex = catalog
	var loginLimiter ratelimit.Store = ratelimit.NewMemoryStore(cfg.LoginLimit, cfg.LoginWindow)

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.NewRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn("redis_unavailable", "error", err)
		} else {
			defer rdb.Close()
			categories.Cache = cache.NewCategoryTree(rdb, cfg.CategoryTTL)
			loginLimiter = &ratelimit.RedisStore{
				Client: rdb,
				Prefix: cfg.ServiceName + ":ratelimit:",
				Limit:  cfg.LoginLimit,
				Window: cfg.LoginWindow,
			}
			logger.Info("redis_enabled")
		}
	}

	if cfg.SearchEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		es, err := search.NewClient(ctx, cfg.Search)
		if err == nil {
			idx := search.NewProductIndex(es, cfg.ProductIndex)
			if err = idx.EnsureIndex(ctx); err == nil {
				catalog.Index = idx
				logger.Info("search_enabled", "index", idx.Index)
			}
		}
		cancel()
		if err != nil {
			logger.Warn("search_unavailable", "error", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(cfg.UploadLimit))

	httpserver.Register(e, &httpserver.Deps{
		DB:           db,
		Auth:         &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, Tokens: cfg.Tokens, AdminSecret: cfg.AdminSecret}},
		Categories:   &httpserver.CategoryHTTP{Svc: categories},
		Catalog:      &httpserver.CatalogHTTP{Svc: catalog},
		Slider:       &httpserver.SliderHTTP{Svc: &service.SliderService{Repo: store, Images: images}},
		Contacts:     &httpserver.ContactHTTP{Svc: &service.ContactService{Repo: store}},
		Bearer:       middleware.NewBearerAuth(cfg.Tokens),
		LoginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = pkgdb.Close(db)

	logger.Info("server_stopped")
}
