package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/controllers"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/middleware"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/auth"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/cart"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/dashboard"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/orders"
	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/wishlist"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/auth/session"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/config"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/metrics"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/redis"
)

// Deps collects everything the HTTP surface needs wired in.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	CartManager     *cart.Manager
	ProductService  product.Service
	OrderService    orders.Service
	WishlistService wishlist.Service
	DashboardSvc    dashboard.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
}

// NewRouter assembles the full route tree with middleware ordering fixed:
// recovery outermost, then request id, logging, CORS, and metrics.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.RegisterService, logg))
		r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
		r.Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.ProductService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/", controllers.GetCart(deps.CartManager, logg))
			r.Post("/items", controllers.AddCartItem(deps.CartManager, logg))
			r.Patch("/items/{itemId}", controllers.UpdateCartItem(deps.CartManager, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.CartManager, logg))
			r.Delete("/", controllers.ClearCart(deps.CartManager, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.OrderService, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(deps.OrderService, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Get("/", controllers.GetWishlist(deps.WishlistService, logg))
			r.Get("/ids", controllers.GetWishlistIDs(deps.WishlistService, logg))
			r.Post("/{productId}", controllers.AddWishlistItem(deps.WishlistService, logg))
			r.Delete("/{productId}", controllers.RemoveWishlistItem(deps.WishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.ProductService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.ProductService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.OrderService, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.OrderService, logg))
		})
		r.Get("/dashboard", controllers.AdminDashboardSummary(deps.DashboardSvc, logg))
	})

	return r
}
