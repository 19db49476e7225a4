// Package coupon - 优惠券 HTTP 控制器
package coupon

import (
	"net/http"

	"bookstore/api/middleware"
	"bookstore/api/response"
	appcoupon "bookstore/application/coupon"
	apporder "bookstore/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 优惠券控制器
type Controller struct {
	service *appcoupon.Service
}

// NewController 创建优惠券控制器
func NewController(service *appcoupon.Service) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes 注册路由
func (ctrl *Controller) RegisterRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	{
		coupons.POST("/validate", ctrl.Validate)
		coupons.POST("", ctrl.Create)
		coupons.GET("", ctrl.List)
		coupons.PUT("/:code/deactivate", ctrl.Deactivate)
	}
}

// validateRequest 结算页校验请求
type validateRequest struct {
	Code       string `json:"code" binding:"required"`
	OrderValue int64  `json:"orderValue" binding:"gte=0"`
}

// Validate 校验优惠码并返回折扣金额
// POST /api/v1/coupons/validate
func (ctrl *Controller) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := ctrl.service.Validate(c.Request.Context(), req.Code, req.OrderValue)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, result, "coupon is valid")
}

// Create 管理端创建优惠券
// POST /api/v1/coupons
func (ctrl *Controller) Create(c *gin.Context) {
	if middleware.RequesterRole(c) != apporder.RoleAdmin {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	var req appcoupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, err, "invalid request body", http.StatusBadRequest)
		return
	}

	dto, err := ctrl.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleCreated(c, dto, "coupon created")
}

// Deactivate 管理端下架优惠券
// PUT /api/v1/coupons/:code/deactivate
func (ctrl *Controller) Deactivate(c *gin.Context) {
	if middleware.RequesterRole(c) != apporder.RoleAdmin {
		response.HandleError(c, nil, "admin role required", http.StatusForbidden)
		return
	}

	dto, err := ctrl.service.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dto, "coupon deactivated")
}

// List 查询启用中的优惠券
// GET /api/v1/coupons
func (ctrl *Controller) List(c *gin.Context) {
	dtos, err := ctrl.service.ListActive(c.Request.Context())
	if err != nil {
		response.HandleAppError(c, err)
		return
	}

	response.HandleSuccess(c, dtos, "")
}
