// Package cmd - 应用装配与生命周期管理
package cmd

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookstore/api"
	apicoupon "bookstore/api/coupon"
	"bookstore/api/health"
	apiorder "bookstore/api/order"
	apipayment "bookstore/api/payment"
	appcart "bookstore/application/cart"
	appcoupon "bookstore/application/coupon"
	apporder "bookstore/application/order"
	apppayment "bookstore/application/payment"
	"bookstore/application/stock"
	"bookstore/config"
	"bookstore/domain/book"
	"bookstore/domain/cart"
	"bookstore/domain/coupon"
	"bookstore/domain/order"
	"bookstore/infrastructure/gateway/momo"
	"bookstore/infrastructure/persistence/mocks"
	"bookstore/infrastructure/persistence/mysql"
	"bookstore/pkg/logger"

	"go.uber.org/zap"
)

// App 应用实例
type App struct {
	config *config.Config
	server *http.Server
	sqlDB  *sql.DB // mock 持久化时为 nil
}

type repositories struct {
	orders  order.Repository
	books   book.Repository
	coupons coupon.Repository
	carts   cart.Repository
	sqlDB   *sql.DB
}

// NewApp 装配应用
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, err
	}

	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env))

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	// 应用服务
	ledger := stock.NewLedger(repos.books)
	couponService := appcoupon.NewService(repos.coupons)
	reconciler := appcart.NewReconciler(repos.carts)
	orderService := apporder.NewService(repos.orders, ledger, couponService)

	gatewayCfg := momo.Config{
		PartnerCode: cfg.Gateway.PartnerCode,
		AccessKey:   cfg.Gateway.AccessKey,
		SecretKey:   cfg.Gateway.SecretKey,
		Endpoint:    cfg.Gateway.Endpoint,
		RedirectURL: cfg.Gateway.RedirectURL,
		IPNURL:      cfg.Gateway.IPNURL,
		RequestType: cfg.Gateway.RequestType,
	}
	gatewayClient := momo.NewClient(gatewayCfg, cfg.Gateway.RequestTimeout)
	paymentService := apppayment.NewService(gatewayCfg, gatewayClient, repos.orders,
		orderService, reconciler, cfg.Gateway.SkipSignatureCheck)

	// 控制器与路由
	router := api.NewRouter(cfg,
		health.NewController(cfg, repos.sqlDB),
		apiorder.NewController(orderService),
		apipayment.NewController(paymentService),
		apicoupon.NewController(couponService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{config: cfg, server: server, sqlDB: repos.sqlDB}, nil
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Database.Type == "mysql" {
		db, err := mysql.Connect(&cfg.Database)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &repositories{
			orders:  mysql.NewOrderRepository(db),
			books:   mysql.NewBookRepository(db),
			coupons: mysql.NewCouponRepository(db),
			carts:   mysql.NewCartRepository(db),
			sqlDB:   sqlDB,
		}, nil
	}

	logger.Info("Using in-memory persistence layer")
	return &repositories{
		orders:  mocks.NewOrderRepository(),
		books:   mocks.NewBookRepository(),
		coupons: mocks.NewCouponRepository(),
		carts:   mocks.NewCartRepository(),
	}, nil
}

// Run 启动服务并阻塞至收到退出信号
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
	return logger.Sync()
}
