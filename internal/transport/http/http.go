package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/farm2school/order/internal/service/models/school"
	"github.com/farm2school/order/internal/service/services/deliverysvc"
	"github.com/farm2school/order/internal/service/services/identitysvc"
	"github.com/farm2school/order/internal/service/services/paymentsvc"
	addproduce "github.com/farm2school/order/internal/transport/http/add_produce"
	cancelorder "github.com/farm2school/order/internal/transport/http/cancel_order"
	checkoutorder "github.com/farm2school/order/internal/transport/http/checkout_order"
	createdelivery "github.com/farm2school/order/internal/transport/http/create_delivery"
	createorder "github.com/farm2school/order/internal/transport/http/create_order"
	createpayment "github.com/farm2school/order/internal/transport/http/create_payment"
	getdelivery "github.com/farm2school/order/internal/transport/http/get_delivery"
	getorder "github.com/farm2school/order/internal/transport/http/get_order"
	getpayment "github.com/farm2school/order/internal/transport/http/get_payment"
	listorders "github.com/farm2school/order/internal/transport/http/list_orders"
	listproduce "github.com/farm2school/order/internal/transport/http/list_produce"
	"github.com/farm2school/order/internal/transport/http/login"
	"github.com/farm2school/order/internal/transport/http/profile"
	"github.com/farm2school/order/internal/transport/http/signup"
	updatedeliverystatus "github.com/farm2school/order/internal/transport/http/update_delivery_status"
	updateorderstatus "github.com/farm2school/order/internal/transport/http/update_order_status"
	updateproduce "github.com/farm2school/order/internal/transport/http/update_produce"
	"github.com/farm2school/order/pkg/http/middleware/trace"
	"github.com/farm2school/order/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	Create(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
	ListBySchool(ctx context.Context, schoolID int64) ([]order.Order, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, next order.Status) (*order.Order, error)
	Cancel(ctx context.Context, orderID int64) (*order.Order, error)
}

type paymentService interface {
	Capture(ctx context.Context, model paymentsvc.CaptureModel) (payment.Payment, error)
	Checkout(ctx context.Context, model paymentsvc.CheckoutModel) error
	GetLatestByOrder(ctx context.Context, orderID int64) (*payment.Payment, error)
}

type deliveryService interface {
	Schedule(ctx context.Context, model deliverysvc.ScheduleModel) (delivery.Delivery, error)
	GetByOrder(ctx context.Context, orderID int64) (*delivery.Delivery, error)
	UpdateStatus(ctx context.Context, deliveryID int64, status string) error
}

type catalogService interface {
	AddProduce(ctx context.Context, p produce.Produce) (produce.Produce, error)
	UpdateProduce(ctx context.Context, produceID int64, model *produce.UpdateModel) (*produce.Produce, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]produce.Produce, error)
	SearchAvailable(ctx context.Context, filter *produce.SearchModel) ([]produce.Produce, error)
}

type identityService interface {
	LoginSchool(ctx context.Context, email, password string) (*school.School, error)
	LoginFarmer(ctx context.Context, email, password string) (*farmer.Farmer, error)
	SignupSchool(ctx context.Context, model identitysvc.SchoolSignupModel) (*school.School, error)
	SignupFarmer(ctx context.Context, model identitysvc.FarmerSignupModel) (*farmer.Farmer, error)
	GetSchool(ctx context.Context, schoolID int64) (*school.School, error)
	GetFarmer(ctx context.Context, farmerID int64) (*farmer.Farmer, error)
	UpdateSchoolProfile(ctx context.Context, schoolID int64, model *school.UpdateModel) (*school.School, error)
	UpdateFarmerProfile(ctx context.Context, farmerID int64, model *farmer.UpdateModel) (*farmer.Farmer, error)
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	paymentSvc paymentService
	deliverSvc deliveryService
	catalogSvc catalogService
	idSvc      identityService
}

func NewHTTPTransport(
	orderSvc orderService,
	paymentSvc paymentService,
	deliverSvc deliveryService,
	catalogSvc catalogService,
	idSvc identityService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		paymentSvc: paymentSvc,
		deliverSvc: deliverSvc,
		catalogSvc: catalogSvc,
		idSvc:      idSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/{orderID}", h.getOrder)
			r.Get("/school/{schoolID}", h.listOrdersBySchool)
			r.Get("/farmer/{farmerID}", h.listOrdersByFarmer)
			r.Put("/{orderID}/status", h.updateOrderStatus)
			r.Put("/{orderID}/payment", h.checkoutOrder)
			r.Post("/{orderID}/cancel", h.cancelOrder)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.createPayment)
			r.Get("/order/{orderID}", h.getPayment)
		})

		r.Route("/deliveries", func(r chi.Router) {
			r.Post("/", h.createDelivery)
			r.Get("/order/{orderID}", h.getDelivery)
			r.Put("/{deliveryID}/status", h.updateDeliveryStatus)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/school", h.loginSchool)
			r.Post("/farmer", h.loginFarmer)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/school", h.signupSchool)
			r.Post("/farmer", h.signupFarmer)
		})

		r.Route("/schools/{schoolID}", func(r chi.Router) {
			r.Get("/profile", h.getSchoolProfile)
			r.Put("/profile", h.updateSchoolProfile)
		})

		r.Route("/farmers/{farmerID}", func(r chi.Router) {
			r.Get("/profile", h.getFarmerProfile)
			r.Put("/profile", h.updateFarmerProfile)
			r.Get("/produce", h.listFarmerProduce)
		})

		r.Route("/produce", func(r chi.Router) {
			r.Post("/", h.addProduce)
			r.Get("/", h.searchProduce)
			r.Put("/{produceID}", h.updateProduce)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrdersBySchool(w http.ResponseWriter, r *http.Request) {
	listorders.BySchool(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrdersByFarmer(w http.ResponseWriter, r *http.Request) {
	listorders.ByFarmer(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updateorderstatus.UpdateOrderStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) checkoutOrder(w http.ResponseWriter, r *http.Request) {
	checkoutorder.CheckoutOrder(w, r, h.paymentSvc)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) createPayment(w http.ResponseWriter, r *http.Request) {
	createpayment.CreatePayment(w, r, h.paymentSvc)
}

func (h *HTTPTransport) getPayment(w http.ResponseWriter, r *http.Request) {
	getpayment.GetPayment(w, r, h.paymentSvc)
}

func (h *HTTPTransport) createDelivery(w http.ResponseWriter, r *http.Request) {
	createdelivery.CreateDelivery(w, r, h.deliverSvc)
}

func (h *HTTPTransport) getDelivery(w http.ResponseWriter, r *http.Request) {
	getdelivery.GetDelivery(w, r, h.deliverSvc)
}

func (h *HTTPTransport) updateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	updatedeliverystatus.UpdateDeliveryStatus(w, r, h.deliverSvc)
}

func (h *HTTPTransport) loginSchool(w http.ResponseWriter, r *http.Request) {
	login.School(w, r, h.idSvc)
}

func (h *HTTPTransport) loginFarmer(w http.ResponseWriter, r *http.Request) {
	login.Farmer(w, r, h.idSvc)
}

func (h *HTTPTransport) signupSchool(w http.ResponseWriter, r *http.Request) {
	signup.School(w, r, h.idSvc)
}

func (h *HTTPTransport) signupFarmer(w http.ResponseWriter, r *http.Request) {
	signup.Farmer(w, r, h.idSvc)
}

func (h *HTTPTransport) getSchoolProfile(w http.ResponseWriter, r *http.Request) {
	profile.GetSchool(w, r, h.idSvc)
}

func (h *HTTPTransport) updateSchoolProfile(w http.ResponseWriter, r *http.Request) {
	profile.UpdateSchool(w, r, h.idSvc)
}

func (h *HTTPTransport) getFarmerProfile(w http.ResponseWriter, r *http.Request) {
	profile.GetFarmer(w, r, h.idSvc)
}

func (h *HTTPTransport) updateFarmerProfile(w http.ResponseWriter, r *http.Request) {
	profile.UpdateFarmer(w, r, h.idSvc)
}

func (h *HTTPTransport) addProduce(w http.ResponseWriter, r *http.Request) {
	addproduce.AddProduce(w, r, h.catalogSvc)
}

func (h *HTTPTransport) updateProduce(w http.ResponseWriter, r *http.Request) {
	updateproduce.UpdateProduce(w, r, h.catalogSvc)
}

func (h *HTTPTransport) searchProduce(w http.ResponseWriter, r *http.Request) {
	listproduce.SearchAvailable(w, r, h.catalogSvc)
}

func (h *HTTPTransport) listFarmerProduce(w http.ResponseWriter, r *http.Request) {
	listproduce.ByFarmer(w, r, h.catalogSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

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
