package payment

// InitiatePaymentRequest 发起支付请求
type InitiatePaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// InitiatePaymentResponse 发起支付响应
type InitiatePaymentResponse struct {
	PaymentURL           string `json:"paymentUrl"`
	GatewayOrderID       string `json:"gatewayOrderId"`
	GatewayTransactionID string `json:"gatewayTransactionId"`
}

// CheckStatusRequest 前端轮询的支付结果回传，
// 字段来自网关重定向 URL 的查询参数
type CheckStatusRequest struct {
	OrderID    string `json:"orderId" binding:"required"` // 网关侧交易号
	RequestID  string `json:"requestId"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	TransID    int64  `json:"transId"`
	ExtraData  string `json:"extraData"`
}

// CheckStatusResponse 轮询处理结果
type CheckStatusResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
