// Package health - 健康检查
package health

import (
	"database/sql"
	"net/http"
	"time"

	"bookstore/config"

	"github.com/gin-gonic/gin"
)

// Controller 健康检查控制器
type Controller struct {
	cfg *config.Config
	db  *sql.DB // 可为 nil（mock 持久化时）
}

// NewController 创建健康检查控制器
func NewController(cfg *config.Config, db *sql.DB) *Controller {
	return &Controller{cfg: cfg, db: db}
}

// RegisterRoutes 注册路由
func (ctrl *Controller) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", ctrl.Health)
}

// Health 健康检查，带数据库连通性探测
// GET /api/v1/health
func (ctrl *Controller) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "disabled"

	if ctrl.db != nil {
		dbStatus = "ok"
		if err := ctrl.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"app":      ctrl.cfg.App.Name,
		"version":  ctrl.cfg.App.Version,
		"env":      ctrl.cfg.App.Env,
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}
