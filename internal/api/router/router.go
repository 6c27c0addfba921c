package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "saborstock/docs" // registra a especificação servida em /swagger/
	"saborstock/internal/api/category"
	"saborstock/internal/api/coupon"
	"saborstock/internal/api/order"
	"saborstock/internal/api/product"
	"saborstock/internal/api/push"
	"saborstock/internal/api/stock"
	"saborstock/internal/api/user"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/cache"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/metrics"
	"saborstock/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Products   *product.Handler
	Categories *category.Handler
	Coupons    *coupon.Handler
	Orders     *order.Handler
	Stock      *stock.Handler
	Users      *user.Handler
	Push       *push.Handler
}

// Options configura os middlewares globais.
type Options struct {
	Tokens          middleware.TokenService
	Cache           cache.Client // nil desliga o rate limit
	Metrics         *metrics.Metrics
	Logger          logger.Logger
	RateLimitMax    int
	RateLimitPeriod time.Duration
	CORSOrigins     []string
	Production      bool
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(opts.Tokens)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)
	admin := func(next http.HandlerFunc) http.HandlerFunc { return auth(adminOnly(next)) }

	// Health check e observabilidade
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", opts.Metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Catálogo
	mux.HandleFunc("GET /v1/products", h.Products.ListProductsHandler)
	mux.HandleFunc("GET /v1/products/{id}", h.Products.GetProductByIDHandler)
	mux.HandleFunc("POST /v1/products", admin(h.Products.CreateProductHandler))
	mux.HandleFunc("PUT /v1/products/{id}", admin(h.Products.UpdateProductHandler))
	mux.HandleFunc("DELETE /v1/products/{id}", admin(h.Products.DeleteProductHandler))
	mux.HandleFunc("GET /v1/admin/products", admin(h.Products.ListAllProductsHandler))

	mux.HandleFunc("GET /v1/categories", h.Categories.ListCategoriesHandler)
	mux.HandleFunc("GET /v1/categories/{id}", h.Categories.GetCategoryHandler)
	mux.HandleFunc("POST /v1/categories", admin(h.Categories.CreateCategoryHandler))
	mux.HandleFunc("PUT /v1/categories/{id}", admin(h.Categories.UpdateCategoryHandler))
	mux.HandleFunc("DELETE /v1/categories/{id}", admin(h.Categories.DeleteCategoryHandler))

	// Cupons
	mux.HandleFunc("POST /v1/coupons/validate", h.Coupons.ValidateCouponHandler)
	mux.HandleFunc("GET /v1/coupons", admin(h.Coupons.ListCouponsHandler))
	mux.HandleFunc("POST /v1/coupons", admin(h.Coupons.CreateCouponHandler))
	mux.HandleFunc("DELETE /v1/coupons/{code}", admin(h.Coupons.DeleteCouponHandler))

	// Pedidos, vendas e estoque
	mux.HandleFunc("POST /v1/orders", h.Orders.PlaceOrderHandler)
	mux.HandleFunc("GET /v1/sales", admin(h.Orders.ListSalesHandler))
	mux.HandleFunc("POST /v1/stock/adjust", admin(h.Stock.AdjustStockHandler))
	mux.HandleFunc("GET /v1/stock/adjustments", admin(h.Stock.ListAdjustmentsHandler))

	// Administradores
	mux.HandleFunc("POST /v1/admin/register", h.Users.RegisterUserHandler)
	mux.HandleFunc("POST /v1/admin/login", h.Users.LoginUserHandler)

	// Notificações
	mux.HandleFunc("POST /v1/push/subscriptions", h.Push.SubscribeHandler)
	mux.HandleFunc("DELETE /v1/push/subscriptions", h.Push.UnsubscribeHandler)
	mux.HandleFunc("GET /v1/push/subscriptions", admin(h.Push.ListSubscriptionsHandler))

	// Middlewares globais, do mais externo para o mais interno.
	var handler http.Handler = mux
	if opts.Cache != nil && opts.RateLimitMax > 0 {
		handler = middleware.RateLimiter(opts.Cache, opts.RateLimitMax, opts.RateLimitPeriod, opts.Logger)(handler)
	}
	handler = opts.Metrics.Middleware(handler)
	handler = middleware.CORS(opts.CORSOrigins)(handler)
	handler = middleware.SecureHeaders(opts.Production)(handler)
	return handler
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
