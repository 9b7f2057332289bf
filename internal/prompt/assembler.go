package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// 组装阶段的基础错误类型
var (
	ErrInsufficientInput     = errors.New("用例必需的输入不足")
	ErrUnresolvedPlaceholder = errors.New("模板存在未解析的占位符")
)

// NotProvidedFallback 缺失字段的显式占位文案
// 模板绝不允许带着未解析的占位符被发送。
const NotProvidedFallback = "記載なし"

// Options 生成选项，随请求一起传给生成网关
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Request 组装完成、可直接发送的生成请求
type Request struct {
	UseCase UseCase
	Prompt  string
	Options Options
}

// placeholderToken 占位符残留检查
var placeholderToken = regexp.MustCompile(`\{[a-zA-Z][a-zA-Z0-9]*\}`)

// Assembler 把归一化文本绑定进固定模板
type Assembler struct {
	defaultOptions Options
}

// NewAssembler 创建提示词组装器
func NewAssembler(defaultOptions Options) *Assembler {
	return &Assembler{defaultOptions: defaultOptions}
}

// Assemble 校验最小输入并绑定模板占位符
// 最小输入校验发生在任何网络调用之前；缺失的占位符绑定为「記載なし」。
func (a *Assembler) Assemble(useCase UseCase, fields map[string]string) (*Request, error) {
	tmpl, err := TemplateFor(useCase)
	if err != nil {
		return nil, err
	}

	if err := validateMinimumInput(useCase, fields); err != nil {
		return nil, err
	}

	bound := tmpl.Text
	for _, name := range tmpl.Placeholders {
		value := strings.TrimSpace(fields[name])
		if value == "" {
			value = fallbackFor(useCase, name)
		}
		bound = strings.ReplaceAll(bound, "{"+name+"}", value)
	}

	if token := placeholderToken.FindString(bound); token != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, token)
	}

	return &Request{
		UseCase: useCase,
		Prompt:  bound,
		Options: a.defaultOptions,
	}, nil
}

// validateMinimumInput 各用例在组装前的最小输入规则
func validateMinimumInput(useCase UseCase, fields map[string]string) error {
	nonEmpty := func(name string) bool {
		return strings.TrimSpace(fields[name]) != ""
	}

	switch useCase {
	case UseCaseTalentSummary:
		if !nonEmpty(PlaceholderResume) && !nonEmpty(PlaceholderNotes) {
			return fmt.Errorf("%w: 職務経歴書または補足情報が必要です", ErrInsufficientInput)
		}
	case UseCaseJobSummary:
		if !nonEmpty(PlaceholderFileContent) && !nonEmpty(PlaceholderNotes) {
			return fmt.Errorf("%w: 案件情報または案件情報メモが必要です", ErrInsufficientInput)
		}
	case UseCaseCounseling:
		if !nonEmpty(PlaceholderFileContent) && !nonEmpty(PlaceholderNotes) {
			return fmt.Errorf("%w: 経歴書または補足情報が必要です", ErrInsufficientInput)
		}
	case UseCaseCompanyAnalysis:
		if !nonEmpty(PlaceholderCompanyName) || !nonEmpty(PlaceholderTargetService) {
			return fmt.Errorf("%w: 会社名と支援テーマが必要です", ErrInsufficientInput)
		}
	case UseCaseScoutMessage:
		for _, name := range []string{
			PlaceholderResumeContent, PlaceholderJobContent,
			PlaceholderCompanyName, PlaceholderRecruiterName,
		} {
			if !nonEmpty(name) {
				return fmt.Errorf("%w: スカウトメールには候補者情報・案件情報・会社名・担当者名が必要です", ErrInsufficientInput)
			}
		}
	}
	return nil
}

// fallbackFor 缺失字段的占位文案
// カウンセリング的经历书整块内容缺失时绑定为空串而不是占位文案，
// 避免在提示词尾部出现孤立的「記載なし」段落。
func fallbackFor(useCase UseCase, placeholder string) string {
	if useCase == UseCaseCounseling && placeholder == PlaceholderFileContent {
		return ""
	}
	return NotProvidedFallback
}

// WrapCounselingDocument 经历书文本在カウンセリング模板中的包装
// 原样放进提示词前冠以小节标题，空内容返回空串。
func WrapCounselingDocument(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return "#経歴書の内容\n" + content
}
