package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomworks/bloomstock-backend/api/controllers"
	"github.com/bloomworks/bloomstock-backend/api/middleware"
	"github.com/bloomworks/bloomstock-backend/internal/catalog"
	"github.com/bloomworks/bloomstock-backend/internal/fulfillment"
	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/internal/payments"
	"github.com/bloomworks/bloomstock-backend/internal/reservations"
	"github.com/bloomworks/bloomstock-backend/pkg/config"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
	pkgredis "github.com/bloomworks/bloomstock-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DBPinger     pinger
	Redis        *pkgredis.Client
	Catalog      catalog.Service
	Inventory    inventory.Service
	Reservations reservations.Service
	Fulfillment  fulfillment.Service
	Payments     payments.Service
	Metrics      http.Handler
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, logg, deps.DBPinger, redisPinger(deps.Redis)))
	})

	r.Get("/ping", controllers.PublicPing())

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(logg))
		var store pkgredis.IdempotencyStore
		if deps.Redis != nil {
			store = deps.Redis
		}
		r.Use(middleware.Idempotency(store, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/intake", controllers.InventoryIntake(deps.Inventory, logg))
			r.Post("/adjust", controllers.InventoryAdjust(deps.Inventory, logg))
			r.Post("/write-off", controllers.InventoryWriteOff(deps.Inventory, logg))
			r.Get("/availability/{productID}", controllers.InventoryAvailability(deps.Reservations, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.Catalog, logg))
			r.Get("/{productID}/movements", controllers.ProductMovements(deps.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Fulfillment, logg))
			r.Get("/{orderID}", controllers.OrderGet(deps.Fulfillment, logg))
			r.Post("/{orderID}/transition", controllers.OrderTransition(deps.Fulfillment, logg))
			r.Get("/{orderID}/movements", controllers.OrderMovements(deps.Inventory, logg))
			r.Post("/{orderID}/payments", controllers.PaymentRegister(deps.Payments, logg))
			r.Get("/{orderID}/payments", controllers.PaymentList(deps.Payments, logg))
			r.Post("/{orderID}/payments/refresh", controllers.PaymentRefresh(deps.Payments, logg))
			r.Get("/{orderID}/payments/history", controllers.PaymentHistory(deps.Payments, logg))
		})
	})

	return r
}

// redisPinger avoids handing a typed-nil *Client to an interface parameter.
func redisPinger(client *pkgredis.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}
