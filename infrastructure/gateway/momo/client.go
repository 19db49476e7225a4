package momo

import (
	"context"
	"fmt"
	"time"

	"bookstore/pkg/logger"
	"bookstore/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client MoMo 网关 HTTP 客户端，外呼经熔断器保护
type Client struct {
	cfg     Config
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient 创建网关客户端
func NewClient(cfg Config, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "momo-gateway",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("gateway circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{cfg: cfg, http: httpClient, breaker: breaker}
}

// Config 返回客户端持有的网关配置
func (c *Client) Config() Config {
	return c.cfg
}

// CreatePayment 向网关发起支付创建。非零 resultCode 视为网关拒绝，
// 返回响应但附带错误；传输层失败计入熔断。
func (c *Client) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	req.PartnerCode = c.cfg.PartnerCode
	req.AccessKey = c.cfg.AccessKey
	req.RedirectURL = c.cfg.RedirectURL
	req.IPNURL = c.cfg.IPNURL
	req.RequestType = c.cfg.RequestType
	if req.Lang == "" {
		req.Lang = "vi"
	}
	req.Signature = SignCreateRequest(c.cfg, req)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var resp CreateResponse
		httpResp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&resp).
			Post(c.cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("gateway request failed: %w", err)
		}
		if httpResp.IsError() {
			return nil, fmt.Errorf("gateway returned HTTP %d", httpResp.StatusCode())
		}
		return &resp, nil
	})
	if err != nil {
		metrics.GatewayRequests.WithLabelValues("error").Inc()
		logger.Error("gateway payment creation failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, err
	}

	resp := result.(*CreateResponse)
	if resp.ResultCode != 0 {
		metrics.GatewayRequests.WithLabelValues("rejected").Inc()
		logger.Warn("gateway rejected payment creation",
			zap.String("order_id", req.OrderID),
			zap.Int("result_code", resp.ResultCode),
			zap.String("message", resp.Message))
		return resp, fmt.Errorf("gateway rejected request: %s (code %d)", resp.Message, resp.ResultCode)
	}

	metrics.GatewayRequests.WithLabelValues("success").Inc()
	return resp, nil
}
