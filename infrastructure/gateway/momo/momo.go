/*
Package momo - MoMo 支付网关协议

签名串的字段顺序与拼接格式必须与网关逐字节一致，
任何改动都会导致验签失败。签名与解析均为纯函数，
配置以值对象注入，包内不持有可变状态。
*/
package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Config 网关配置值对象
type Config struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
	RequestType string // captureWallet
}

// CreateRequest 发起支付请求
type CreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

// CreateResponse 发起支付响应
type CreateResponse struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
	PayURL      string `json:"payUrl"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

// Notification IPN 回调参数（网关原样回显 extraData）
type Notification struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// extraDataPayload extraData 内嵌的 JSON 载荷，
// 携带内部订单 ID 跨越网关往返
type extraDataPayload struct {
	DBOrderID string `json:"dbOrderId"`
}

// NewTransactionID 生成网关侧唯一交易号: <订单ID>_<毫秒时间戳>。
// 同一订单的重试各自得到新交易号。
func NewTransactionID(orderID string, now time.Time) string {
	return fmt.Sprintf("%s_%d", orderID, now.UnixMilli())
}

// OrderIDFromTransactionID 从网关交易号还原内部订单 ID
func OrderIDFromTransactionID(txnID string) (string, bool) {
	idx := strings.LastIndex(txnID, "_")
	if idx <= 0 {
		return "", false
	}
	return txnID[:idx], true
}

// EncodeExtraData 将内部订单 ID 编码进 extraData
func EncodeExtraData(orderID string) string {
	data, _ := json.Marshal(extraDataPayload{DBOrderID: orderID})
	return string(data)
}

// OrderIDFromExtraData 从 extraData 解码内部订单 ID
func OrderIDFromExtraData(extraData string) (string, bool) {
	if extraData == "" {
		return "", false
	}
	var payload extraDataPayload
	if err := json.Unmarshal([]byte(extraData), &payload); err != nil || payload.DBOrderID == "" {
		return "", false
	}
	return payload.DBOrderID, true
}

// signHMAC HMAC-SHA256 十六进制签名
func signHMAC(secretKey, raw string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// rawCreateSignature 发起支付的规范化签名串，字段顺序固定
func rawCreateSignature(cfg Config, req CreateRequest) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		cfg.AccessKey, req.Amount, req.ExtraData, cfg.IPNURL, req.OrderID,
		req.OrderInfo, cfg.PartnerCode, cfg.RedirectURL, req.RequestID, cfg.RequestType,
	)
}

// SignCreateRequest 计算发起支付的签名
func SignCreateRequest(cfg Config, req CreateRequest) string {
	return signHMAC(cfg.SecretKey, rawCreateSignature(cfg, req))
}

// rawNotificationSignature IPN 回调的规范化签名串，字段顺序固定
func rawNotificationSignature(cfg Config, n Notification) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.AccessKey, n.Amount, n.ExtraData, n.Message, n.OrderID, n.OrderInfo,
		n.OrderType, n.PartnerCode, n.PayType, n.RequestID, n.ResponseTime,
		n.ResultCode, n.TransID,
	)
}

// VerifyNotification 校验 IPN 回调签名
func VerifyNotification(cfg Config, n Notification) bool {
	expected := signHMAC(cfg.SecretKey, rawNotificationSignature(cfg, n))
	return hmac.Equal([]byte(expected), []byte(n.Signature))
}
