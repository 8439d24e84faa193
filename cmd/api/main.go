package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/routes"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/auth"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/cart"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/dashboard"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/janitor"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/orders"
	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/users"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/wishlist"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/auth/session"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/config"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/metrics"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/migrate"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(ordersRepo, dbClient, productRepo, orders.NewInventoryAdjuster())
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Cart sessions live in this process, so the idle sweep has to run here
	// against the same manager that serves requests.
	cartPurge, err := janitor.NewCartPurgeJob(janitor.CartPurgeJobParams{
		Logger: logg,
		Carts:  cartManager,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart purge job", err)
		os.Exit(1)
	}
	cartSweeper, err := janitor.NewService(janitor.ServiceParams{
		Logger:   logg,
		Registry: janitor.NewRegistry(cartPurge),
		Lock:     janitor.NewLocalLock(),
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.Janitor.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart sweeper", err)
		os.Exit(1)
	}
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go func() {
		if err := cartSweeper.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(sweepCtx, "cart sweeper stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionChecker:  sessionManager,
			AuthService:     authService,
			RegisterService: registerService,
			CartManager:     cartManager,
			ProductService:  productService,
			OrderService:    orderService,
			WishlistService: wishlistService,
			DashboardSvc:    dashboardService,
			HTTPMetrics:     httpMetrics,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
