// @title SaborStock API
// @version 1.0
// @description Backend da loja de doces: catálogo com sabores, categorias, cupons, pedidos e baixa de estoque.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"saborstock/config"
	"saborstock/internal/pkg/cache"
	"saborstock/internal/pkg/database"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/metrics"
	"saborstock/internal/pkg/token"

	// Handlers
	"saborstock/internal/api/category"
	"saborstock/internal/api/coupon"
	"saborstock/internal/api/order"
	"saborstock/internal/api/product"
	"saborstock/internal/api/push"
	"saborstock/internal/api/router"
	"saborstock/internal/api/stock"
	"saborstock/internal/api/user"

	// Acesso a dados
	"saborstock/internal/repository/categoryrepo"
	"saborstock/internal/repository/couponrepo"
	"saborstock/internal/repository/productrepo"
	"saborstock/internal/repository/pushrepo"
	"saborstock/internal/repository/salerepo"
	"saborstock/internal/repository/stockrepo"
	"saborstock/internal/repository/userrepo"

	// Regras de negócio
	"saborstock/internal/service/categoryservice"
	"saborstock/internal/service/couponservice"
	"saborstock/internal/service/orderservice"
	"saborstock/internal/service/productservice"
	"saborstock/internal/service/pushservice"
	"saborstock/internal/service/stockservice"
	"saborstock/internal/service/userservice"
)

func main() {
	log.Println("⚡ Inicializando serviço SaborStock...")

	// 0. Variáveis de ambiente (.env é opcional; em Docker tudo vem do ambiente)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 1. Infraestrutura
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	defer cacheClient.Close()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		appLog.Warn("Redis indisponível; seguindo sem cache até reconectar.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		appLog.Info("Conexão Redis estabelecida.", nil)
	}
	pingCancel()

	appMetrics := metrics.New()
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Injeção de dependências: Repository -> Service -> Handler
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, appLog)
	categoryRepo := categoryrepo.NewCategoryRepository(db, cfg.DBTimeout, appLog)
	couponRepo := couponrepo.NewCouponRepository(db, cfg.DBTimeout, appLog)
	saleRepo := salerepo.NewSaleRepository(db, cfg.DBTimeout, appLog)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	pushRepo := pushrepo.NewPushRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	productSvc := productservice.NewService(productRepo, appLog)
	stockSvc := stockservice.NewService(productRepo, stockRepo, appLog)
	categorySvc := categoryservice.NewService(categoryRepo, appLog)
	couponSvc := couponservice.NewService(couponRepo, appLog)
	orderSvc := orderservice.NewService(saleRepo, productRepo, couponSvc, stockSvc, appMetrics, appLog)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	pushSvc := pushservice.NewService(pushRepo, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Products:   product.NewHandler(productSvc, appLog, appMetrics),
		Categories: category.NewHandler(categorySvc, appLog, appMetrics),
		Coupons:    coupon.NewHandler(couponSvc, appLog),
		Orders:     order.NewHandler(orderSvc, appLog),
		Stock:      stock.NewHandler(stockSvc, appLog, appMetrics),
		Users:      user.NewHandler(userSvc, appLog),
		Push:       push.NewHandler(pushSvc, appLog),
	}

	// 3. Roteador e servidor
	r := router.NewRouter(handlers, router.Options{
		Tokens:          tokenSvc,
		Cache:           cacheClient,
		Metrics:         appMetrics,
		Logger:          appLog,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		Production:      cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor SaborStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
