// Package api - 路由装配
package api

import (
	"bookstore/api/coupon"
	"bookstore/api/health"
	"bookstore/api/middleware"
	"bookstore/api/order"
	"bookstore/api/payment"
	"bookstore/config"
	"bookstore/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router 路由配置
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	healthController  *health.Controller
	orderController   *order.Controller
	paymentController *payment.Controller
	couponController  *coupon.Controller
}

// NewRouter 创建路由配置
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	orderController *order.Controller,
	paymentController *payment.Controller,
	couponController *coupon.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 中间件顺序敏感: 先生成请求 ID，再恢复/日志/跨域/限流/指标
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logging())
	engine.Use(middleware.CORS(&cfg.CORS))
	engine.Use(middleware.RateLimit(&cfg.Server.RateLimit))
	engine.Use(metrics.Middleware())

	return &Router{
		engine:            engine,
		config:            cfg,
		healthController:  healthController,
		orderController:   orderController,
		paymentController: paymentController,
		couponController:  couponController,
	}
}

// SetupRoutes 装配全部路由
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	apiGroup.Use(middleware.Identity())
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
		r.paymentController.RegisterRoutes(apiGroup)
		r.couponController.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine 返回 gin 引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
