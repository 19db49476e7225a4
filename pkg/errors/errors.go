/*
Package errors - 应用统一错误定义

设计原则:
1. 错误码与 HTTP 状态码解耦，HTTP 映射只存在于 API 层
2. 领域层哨兵错误通过 FromDomainError 转换为 AppError
3. 内部错误不向客户端暴露细节，真实原因只记录日志
*/
package errors

import (
	"errors"
	"fmt"

	"bookstore/domain/book"
	"bookstore/domain/cart"
	"bookstore/domain/coupon"
	"bookstore/domain/order"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeConflict   ErrorCode = "CONFLICT"
	CodeForbidden  ErrorCode = "FORBIDDEN"

	// 业务错误码
	CodeOrderNotFound  ErrorCode = "ORDER_NOT_FOUND"
	CodeCouponNotFound ErrorCode = "COUPON_NOT_FOUND"
	CodeBookNotFound   ErrorCode = "BOOK_NOT_FOUND"
	CodeGateway        ErrorCode = "GATEWAY_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// 常用错误构造函数

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Gateway 创建支付网关错误，message 优先使用网关返回的原始消息
func Gateway(message string) *AppError {
	if message == "" {
		message = "payment gateway request failed"
	}
	return New(CodeGateway, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 领域层只返回哨兵错误，不感知错误码与 HTTP 语义
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return New(CodeOrderNotFound, "order not found")
	case errors.Is(err, order.ErrEmptyOrderItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrNegativePrice),
		errors.Is(err, order.ErrInvalidStatus):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, order.ErrCannotCancelPaidOrder),
		errors.Is(err, order.ErrOrderClosed),
		errors.Is(err, order.ErrOrderDelivered),
		errors.Is(err, order.ErrAddressFrozen):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, order.ErrNotOrderOwner):
		return Wrap(err, CodeForbidden, err.Error())
	case errors.Is(err, coupon.ErrCouponNotFound):
		return New(CodeCouponNotFound, "coupon not found")
	case errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponExhausted),
		errors.Is(err, coupon.ErrOrderValueTooLow),
		errors.Is(err, coupon.ErrCouponExists):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, book.ErrBookNotFound):
		return New(CodeBookNotFound, "book not found")
	case errors.Is(err, cart.ErrCartNotFound):
		return New(CodeNotFound, "cart not found")
	default:
		return Wrap(err, CodeInternal, err.Error())
	}
}
