package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencecomx/sourcing-backend/api/controllers"
	"github.com/agencecomx/sourcing-backend/api/middleware"
	authsvc "github.com/agencecomx/sourcing-backend/internal/auth"
	containersvc "github.com/agencecomx/sourcing-backend/internal/containers"
	"github.com/agencecomx/sourcing-backend/internal/favorites"
	messagesvc "github.com/agencecomx/sourcing-backend/internal/messages"
	notificationsvc "github.com/agencecomx/sourcing-backend/internal/notifications"
	ordersvc "github.com/agencecomx/sourcing-backend/internal/orders"
	productsvc "github.com/agencecomx/sourcing-backend/internal/products"
	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/pkg/auth/session"
	"github.com/agencecomx/sourcing-backend/pkg/config"
	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
	"github.com/agencecomx/sourcing-backend/pkg/metrics"
	"github.com/agencecomx/sourcing-backend/pkg/redis"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *db.Client
	Redis         *redis.Client
	Sessions      *session.Manager
	HTTPMetrics   *metrics.HTTPMetrics
	Auth          authsvc.Service
	Products      productsvc.Service
	Quotes        *quotes.Manager
	Favorites     *favorites.Manager
	Containers    containersvc.Service
	Orders        ordersvc.Service
	Messages      messagesvc.Service
	Notifications notificationsvc.Service
}

// NewRouter assembles the full HTTP surface of the API.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/v1/auth", func(r chi.Router) {
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Products, logg))
		})

		r.Route("/v1/quote", func(r chi.Router) {
			r.Get("/", controllers.QuoteFetch(deps.Quotes, logg))
			r.Delete("/", controllers.QuoteClear(deps.Quotes, logg))
			r.Post("/items", controllers.QuoteAddItem(deps.Quotes, deps.Products, logg))
			r.Patch("/items/{productID}/quantity", controllers.QuoteSetQuantity(deps.Quotes, logg))
			r.Patch("/items/{productID}/selections", controllers.QuoteSetSelections(deps.Quotes, logg))
			r.Delete("/items/{productID}", controllers.QuoteRemoveItem(deps.Quotes, logg))
		})

		r.Route("/v1/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(deps.Favorites, deps.Products, logg))
			r.Post("/{productID}/toggle", controllers.FavoriteToggle(deps.Favorites, logg))
			r.Put("/{productID}", controllers.FavoriteAdd(deps.Favorites, logg))
			r.Delete("/{productID}", controllers.FavoriteRemove(deps.Favorites, logg))
		})

		r.Route("/v1/containers", func(r chi.Router) {
			r.Get("/", controllers.ListContainers(deps.Containers, logg))
			r.Get("/reservations/me", controllers.MyReservations(deps.Containers, logg))
			r.Get("/{containerID}", controllers.GetContainer(deps.Containers, logg))
			r.Post("/{containerID}/admit", controllers.AdmitToContainer(deps.Containers, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(deps.Orders, logg))
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
		})

		r.Route("/v1/messages", func(r chi.Router) {
			r.Post("/", controllers.SendMessage(deps.Messages, logg))
			r.Get("/{userID}", controllers.GetConversation(deps.Messages, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.NotificationsMarkAllRead(deps.Notifications, logg))
		})

		r.Route("/v1/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.MemberRoleSupplier), string(enums.MemberRoleAdmin)))
			r.Post("/products", controllers.SupplierCreateProduct(deps.Products, logg))
			r.Patch("/products/{productID}", controllers.SupplierUpdateProduct(deps.Products, logg))
			r.Delete("/products/{productID}", controllers.SupplierDeleteProduct(deps.Products, logg))
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.MemberRoleAdmin)))
			r.Post("/suppliers", controllers.AdminCreateSupplier(deps.Auth, logg))
			r.Post("/containers", controllers.AdminCreateContainer(deps.Containers, logg))
			r.Get("/containers/{containerID}/items", controllers.AdminListContainerItems(deps.Containers, logg))
		})
	})

	return r
}
