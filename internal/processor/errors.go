package processor

import (
	"errors"
	"fmt"

	"github.com/masanarilee/ai-reactor-tools/internal/document"
	"github.com/masanarilee/ai-reactor-tools/internal/llm"
	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
)

// PipelineError 携带用例和阶段上下文的流水线错误
// 任何失败对当次调用都是终态：要么整条流水线成功，要么带着唯一的错误类别整体失败。
type PipelineError struct {
	UseCase prompt.UseCase
	Stage   string
	BaseErr error
	Detail  string
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (用例:%s, 阶段:%s): %s", e.BaseErr, e.UseCase, e.Stage, e.Detail)
	}
	return fmt.Sprintf("%s (用例:%s, 阶段:%s)", e.BaseErr, e.UseCase, e.Stage)
}

func (e *PipelineError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 流水线阶段名
const (
	StageDecoding   = "decode"
	StageAssembling = "assemble"
	StageGenerating = "generate"
)

func newPipelineError(useCase prompt.UseCase, stage string, err error) error {
	return &PipelineError{
		UseCase: useCase,
		Stage:   stage,
		BaseErr: err,
	}
}

// Category 面向UI的错误消息类别
// 每种失败映射到一个明确的类别，让UI能给出可操作的反馈而不是笼统报错。
type Category string

const (
	CategoryFormat   Category = "format"    // 文件格式不支持
	CategorySize     Category = "size"      // 文件过大
	CategoryContent  Category = "content"   // 文档没有可用文本
	CategoryInput    Category = "input"     // 用例最小输入不足
	CategoryService  Category = "service"   // 生成服务失败
	CategoryInternal Category = "internal"  // 其他内部错误
)

// Categorize 把任意流水线错误归入封闭的UI消息类别
func Categorize(err error) Category {
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return CategoryFormat
	case errors.Is(err, document.ErrFileTooLarge):
		return CategorySize
	case errors.Is(err, document.ErrEmptyExtraction):
		return CategoryContent
	case errors.Is(err, prompt.ErrInsufficientInput):
		return CategoryInput
	case errors.Is(err, llm.ErrTransport),
		errors.Is(err, llm.ErrService),
		errors.Is(err, llm.ErrMalformedResponse):
		return CategoryService
	default:
		return CategoryInternal
	}
}
