// Package payment - 支付 HTTP 控制器
package payment

import (
	"net/http"

	"bookstore/api/response"
	apppayment "bookstore/application/payment"
	"bookstore/infrastructure/gateway/momo"

	"github.com/gin-gonic/gin"
)

// Controller 支付控制器
type Controller struct {
	service *apppayment.Service
}

// NewController 创建支付控制器
func NewController(service *apppayment.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes 注册路由
func (ctrl *Controller) RegisterRoutes(rg *gin.RouterGroup) {
	payment := rg.Group("/payment")
	{
		payment.POST("/create", ctrl.Create)
		payment.POST("/ipn", ctrl.IPN)
		payment.POST("/check-status", ctrl.CheckStatus)
	}
}

// Create 发起线上支付
// POST /api/v1/payment/create
func (ctrl *Controller) Create(c *gin.Context) {
	var req apppayment.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := ctrl.service.Initiate(c.Request.Context(), req.OrderID)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, resp, "payment initiated")
}

// IPN 网关服务端回调。成功处理返回 204；
// 订单无法定位返回 5xx，让网关按重投策略重试。
// POST /api/v1/payment/ipn
func (ctrl *Controller) IPN(c *gin.Context) {
	var n momo.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.HandleError(c, err, "invalid notification body", http.StatusBadRequest)
		return
	}

	if err := ctrl.service.HandleIPN(c.Request.Context(), n); err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleNoContent(c)
}

// CheckStatus 前端轮询回传的支付结果
// POST /api/v1/payment/check-status
func (ctrl *Controller) CheckStatus(c *gin.Context) {
	var req apppayment.CheckStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := ctrl.service.CheckStatus(c.Request.Context(), &req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, resp, resp.Message)
}
