package llm

import (
	"errors"
	"fmt"
)

// 生成服务的基础错误类型
var (
	ErrTransport         = errors.New("生成服务网络调用失败")
	ErrService           = errors.New("生成服务返回错误状态")
	ErrMalformedResponse = errors.New("生成服务响应缺少文本内容")
)

// GenerationError 携带服务端上下文的生成错误
type GenerationError struct {
	BaseErr    error
	StatusCode int
	Detail     string
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (状态码:%d): %s", e.BaseErr, e.StatusCode, e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.BaseErr, e.Detail)
	}
	return e.BaseErr.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *GenerationError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newGenerationError(base error, statusCode int, detail string) error {
	return &GenerationError{BaseErr: base, StatusCode: statusCode, Detail: detail}
}
