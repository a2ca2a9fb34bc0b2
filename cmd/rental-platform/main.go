package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rentflow/rental-platform/internal/api/handlers"
	"github.com/rentflow/rental-platform/internal/api/middleware"
	"github.com/rentflow/rental-platform/internal/config"
	"github.com/rentflow/rental-platform/internal/health"
	"github.com/rentflow/rental-platform/internal/metrics"
	repository "github.com/rentflow/rental-platform/internal/repositories"
	service "github.com/rentflow/rental-platform/internal/services"
	"github.com/rentflow/rental-platform/pkg/sendGrid"
	"github.com/rentflow/rental-platform/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := repos.RunMigrations(cfg.MigrationsDir); err != nil {
		slog.Error("❌ Error running migrations", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	cartRepo := repository.NewCartRepo(redisClient)
	sessionRepo := repository.NewSessionRepo(redisClient)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg)

	jwtKey := []byte(cfg.Security.JWTKey)
	gatewayClient := stripe.NewStripeClient(cfg.Stripe.SecretKey)
	sendGridClient := sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	staffService := service.NewStaffService(repos.Staff, rateLimiter, jwtKey)
	staffHandler := handlers.NewStaffHandler(staffService)
	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(cartRepo, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutService := service.NewCheckoutService(repos.Product, sessionRepo, gatewayClient, cfg)
	reservationService := service.NewReservationService(repos.Reservation, repos.Product, sendGridClient)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, reservationService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	clientService := service.NewClientService(repos.Client)
	clientHandler := handlers.NewClientHandler(clientService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	// Storefront
	routerMux.HandleFunc("GET /api/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("GET /api/cart/items/{productId}", cartHandler.CheckItem())
	routerMux.HandleFunc("PATCH /api/cart/items/{productId}", cartHandler.UpdateItem())
	routerMux.HandleFunc("DELETE /api/cart/items/{productId}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/checkout", checkoutHandler.Checkout())
	routerMux.HandleFunc("GET /api/checkout/verify", checkoutHandler.VerifySession())
	routerMux.HandleFunc("POST /api/checkout/create-reservation", checkoutHandler.CreateReservation())

	// Back office
	routerMux.HandleFunc("POST /api/staff/register", staffHandler.Register())
	routerMux.HandleFunc("POST /api/staff/login", staffHandler.Login())
	routerMux.HandleFunc("GET /api/staff/profile", authMiddleware.Authenticate(staffHandler.Profile()))
	routerMux.HandleFunc("POST /api/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("POST /api/clients", authMiddleware.Authenticate(clientHandler.CreateClient()))
	routerMux.HandleFunc("GET /api/clients", authMiddleware.Authenticate(clientHandler.ListClients()))
	routerMux.HandleFunc("GET /api/clients/{id}", authMiddleware.Authenticate(clientHandler.GetClient()))
	routerMux.HandleFunc("PUT /api/clients/{id}", authMiddleware.Authenticate(clientHandler.UpdateClient()))
	routerMux.HandleFunc("DELETE /api/clients/{id}", authMiddleware.Authenticate(clientHandler.DeleteClient()))
	routerMux.HandleFunc("GET /api/reservations", authMiddleware.Authenticate(reservationHandler.ListReservations()))
	routerMux.HandleFunc("GET /api/reservations/{id}", authMiddleware.Authenticate(reservationHandler.GetReservation()))
	routerMux.HandleFunc("PATCH /api/reservations/{id}/status", authMiddleware.Authenticate(reservationHandler.UpdateStatus()))
	routerMux.HandleFunc("DELETE /api/reservations/{id}", authMiddleware.Authenticate(reservationHandler.DeleteReservation()))
	routerMux.HandleFunc("GET /api/deliveries", authMiddleware.Authenticate(reservationHandler.DeliverySchedule()))
	routerMux.HandleFunc("GET /api/reports/financial", authMiddleware.Authenticate(reservationHandler.FinancialReport()))

	// Operational endpoints
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.HandleFunc("GET /health", healthHandler.HandlerFunc)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "rental-platform")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
