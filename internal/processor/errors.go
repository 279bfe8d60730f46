package processor

import (
	"errors"
	"fmt"
)

// 基础错误类型
var (
	ErrInvalidInput      = errors.New("输入不合法")
	ErrInputTooLarge     = errors.New("输入超过大小限制")
	ErrUnsupportedFile   = errors.New("不支持的文件类型")
	ErrNoExtractableText = errors.New("文件中没有可提取的文本")
	ErrPDFExtractFailed  = errors.New("提取PDF文本失败")
)

// InvalidInputError 边界校验失败，Field 为 JSON 字段路径
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// Is 支持 errors.Is(err, ErrInvalidInput)
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ProcessError 处理过程中的错误
// Detail 是可以直接返回给调用方的说明
type ProcessError struct {
	Op        string
	RequestID string
	BaseErr   error
	Detail    string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 请求:%s): %s", e.BaseErr, e.Op, e.RequestID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 请求:%s)", e.BaseErr, e.Op, e.RequestID)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数

func NewInvalidInputError(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

func NewTooLargeError(op, requestID, detail string) error {
	return &ProcessError{Op: op, RequestID: requestID, BaseErr: ErrInputTooLarge, Detail: detail}
}

func NewUnsupportedFileError(requestID, detail string) error {
	return &ProcessError{Op: "upload", RequestID: requestID, BaseErr: ErrUnsupportedFile, Detail: detail}
}

func NewNoTextError(requestID, detail string) error {
	return &ProcessError{Op: "extract", RequestID: requestID, BaseErr: ErrNoExtractableText, Detail: detail}
}

func NewPDFExtractError(requestID, detail string) error {
	return &ProcessError{Op: "extract", RequestID: requestID, BaseErr: ErrPDFExtractFailed, Detail: detail}
}

// PublicMessage 返回可以展示给调用方的错误说明
func PublicMessage(err error) string {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Error()
	}
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		if procErr.Detail != "" {
			return procErr.Detail
		}
		return procErr.BaseErr.Error()
	}
	return "internal error"
}
