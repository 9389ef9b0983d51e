package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/pizzanova/order/internal/metrics"
	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
	addline "github.com/pizzanova/order/internal/transport/http/add_line"
	cancelorder "github.com/pizzanova/order/internal/transport/http/cancel_order"
	createorder "github.com/pizzanova/order/internal/transport/http/create_order"
	getorder "github.com/pizzanova/order/internal/transport/http/get_order"
	listmenu "github.com/pizzanova/order/internal/transport/http/list_menu"
	listorders "github.com/pizzanova/order/internal/transport/http/list_orders"
	removeline "github.com/pizzanova/order/internal/transport/http/remove_line"
	updateline "github.com/pizzanova/order/internal/transport/http/update_line"
	updateorder "github.com/pizzanova/order/internal/transport/http/update_order"
	"github.com/pizzanova/order/pkg/http/middleware/identity"
	"github.com/pizzanova/order/pkg/http/middleware/trace"
	"github.com/pizzanova/order/pkg/logger"
)

type service interface {
	CreateOrder(
		ctx context.Context,
		clientID *int64,
		info ordersvc.DeliveryInfo,
		lines []ordersvc.NewLine,
	) (*order.Order, error)
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	GetLine(ctx context.Context, id int64) (*orderline.OrderLine, error)
	UpdateOrder(ctx context.Context, orderID int64, patch ordersvc.OrderPatch) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID int64) error
	AddLine(ctx context.Context, orderID int64, req ordersvc.NewLine) (*orderline.OrderLine, error)
	UpdateLine(ctx context.Context, lineID int64, patch ordersvc.LinePatch) (*orderline.OrderLine, error)
	RemoveLine(ctx context.Context, lineID int64) error
	GetMenu(ctx context.Context, filter menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.Post("/orders/for-user", h.createOrderForClient)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Put("/orders/{id}", h.updateOrder)
		r.Delete("/orders/{id}", h.cancelOrder)

		r.Post("/item-orders", h.addLine)
		r.Put("/item-orders/{id}", h.updateLine)
		r.Delete("/item-orders/{id}", h.removeLine)

		r.Get("/menu-items", h.listMenu)
	})

	h.router.Handle("/metrics", promhttp.Handler())
	h.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) createOrderForClient(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrderForClient(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) updateOrder(w http.ResponseWriter, r *http.Request) {
	updateorder.UpdateOrder(w, r, h.service)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.service)
}

func (h *HTTPTransport) addLine(w http.ResponseWriter, r *http.Request) {
	addline.AddLine(w, r, h.service)
}

func (h *HTTPTransport) updateLine(w http.ResponseWriter, r *http.Request) {
	updateline.UpdateLine(w, r, h.service)
}

func (h *HTTPTransport) removeLine(w http.ResponseWriter, r *http.Request) {
	removeline.RemoveLine(w, r, h.service)
}

func (h *HTTPTransport) listMenu(w http.ResponseWriter, r *http.Request) {
	listmenu.ListMenu(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(identity.NewIdentityMiddleware)
	router.Use(metrics.NewMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
