package processor

import (
	"context"

	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// DocumentDecoder 文档解码器接口
type DocumentDecoder interface {
	// Decode 把上传文档的原始字节解码为UTF-8纯文本
	Decode(ctx context.Context, doc *types.SourceDocument) (*types.ExtractedText, error)
}

// TextNormalizer 文本归一化接口
type TextNormalizer interface {
	// Normalize 按来源角色把文本收敛到生成输入预算内
	Normalize(text string, source types.Provenance) types.NormalizedText
}

// PromptAssembler 提示词组装接口
type PromptAssembler interface {
	// Assemble 校验最小输入并把字段绑定进用例模板
	Assemble(useCase prompt.UseCase, fields map[string]string) (*prompt.Request, error)
}

// TextGenerator 文本生成接口
type TextGenerator interface {
	// GenerateText 发起一次生成调用，返回原始生成文本
	GenerateText(ctx context.Context, req *prompt.Request) (string, error)
}
