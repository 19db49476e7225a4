// Package order - 订单 HTTP 控制器
package order

import (
	"net/http"

	"bookstore/api/middleware"
	"bookstore/api/response"
	apporder "bookstore/application/order"
	domainorder "bookstore/domain/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	service *apporder.Service
}

// NewController 创建订单控制器
func NewController(service *apporder.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes 注册路由
func (ctrl *Controller) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", ctrl.Create)
		orders.GET("", ctrl.List)
		orders.GET("/user/:userId", ctrl.ListByUser)
		orders.GET("/:id", ctrl.Get)
		orders.PUT("/:id/pay", ctrl.Pay)
		orders.PUT("/:id/status", ctrl.UpdateStatus)
		orders.PUT("/:id/cancel", ctrl.Cancel)
		orders.PUT("/:id/return", ctrl.Return)
		orders.PUT("/:id/unpay", ctrl.Unpay)
		orders.PUT("/:id/address", ctrl.UpdateAddress)
	}
}

// Create 创建订单
// POST /api/v1/orders
func (ctrl *Controller) Create(c *gin.Context) {
	userID := middleware.RequesterID(c)
	if userID == "" {
		response.HandleError(c, nil, "missing user identity", http.StatusUnauthorized)
		return
	}

	var req apporder.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleCreated(c, dto, "order created")
}

// Get 查询订单（归属人或管理员）
// GET /api/v1/orders/:id
func (ctrl *Controller) Get(c *gin.Context) {
	dto, err := ctrl.service.Get(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "")
}

// List 管理端全量订单查询
// GET /api/v1/orders
func (ctrl *Controller) List(c *gin.Context) {
	if !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	dtos, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dtos, "")
}

// ListByUser 查询用户订单（本人或管理员）
// GET /api/v1/orders/user/:userId
func (ctrl *Controller) ListByUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID != middleware.RequesterID(c) && !isAdmin(c) {
		response.HandleError(c, nil, "no permission to access these orders", http.StatusForbidden)
		return
	}

	dtos, err := ctrl.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dtos, "")
}

// Pay 支付确认。回执 ID 为 ADMIN_CONFIRMED 时走管理端 COD
// 确认路径，订单直接推进为已妥投。
// PUT /api/v1/orders/:id/pay
func (ctrl *Controller) Pay(c *gin.Context) {
	var req apporder.PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	forceDelivered := req.ID == apporder.AdminConfirmedPaymentID
	if forceDelivered && !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	// 归属校验复用查询路径
	if _, err := ctrl.service.Get(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c)); err != nil {
		response.HandleAppError(c, err)
		return
	}

	result := domainorder.PaymentResult{
		ID:         req.ID,
		Status:     req.Status,
		UpdateTime: req.UpdateTime,
		PayerEmail: req.PayerEmail,
	}

	o, _, err := ctrl.service.Confirm(c.Request.Context(), c.Param("id"), result, forceDelivered)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, apporder.ToOrderDTO(o), "order paid")
}

// UpdateStatus 管理端状态推进
// PUT /api/v1/orders/:id/status
func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	if !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	var req apporder.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "order status updated")
}

// Cancel 取消订单（归属人或管理员）
// PUT /api/v1/orders/:id/cancel
func (ctrl *Controller) Cancel(c *gin.Context) {
	var req apporder.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.Cancel(c.Request.Context(), c.Param("id"),
		middleware.RequesterID(c), middleware.RequesterRole(c), req.Reason)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "order cancelled")
}

// Return 管理端退货/拒收
// PUT /api/v1/orders/:id/return
func (ctrl *Controller) Return(c *gin.Context) {
	if !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	var req apporder.ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.Return(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "order returned")
}

// Unpay 管理端更正误标记的支付状态
// PUT /api/v1/orders/:id/unpay
func (ctrl *Controller) Unpay(c *gin.Context) {
	if !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	dto, err := ctrl.service.Unpay(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "order marked unpaid")
}

// UpdateAddress 管理端修改收货地址
// PUT /api/v1/orders/:id/address
func (ctrl *Controller) UpdateAddress(c *gin.Context) {
	if !isAdmin(c) {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	var req apporder.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.UpdateAddress(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "shipping address updated")
}

func isAdmin(c *gin.Context) bool {
	return middleware.RequesterRole(c) == apporder.RoleAdmin
}
