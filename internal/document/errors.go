package document

import (
	"errors"
	"fmt"
)

// 解码阶段的基础错误类型
var (
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrFileTooLarge      = errors.New("文件大小超过上限")
	ErrEmptyExtraction   = errors.New("未能从文档中提取到有效文本")
)

// DecodeError 携带文件上下文的解码错误
type DecodeError struct {
	Filename  string
	MediaType string
	BaseErr   error
	Detail    string
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (文件:%s, 类型:%s): %s", e.BaseErr, e.Filename, e.MediaType, e.Detail)
	}
	return fmt.Sprintf("%s (文件:%s, 类型:%s)", e.BaseErr, e.Filename, e.MediaType)
}

func (e *DecodeError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *DecodeError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newDecodeError(base error, filename, mediaType, detail string) error {
	return &DecodeError{
		Filename:  filename,
		MediaType: mediaType,
		BaseErr:   base,
		Detail:    detail,
	}
}
