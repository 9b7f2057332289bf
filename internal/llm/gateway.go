package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
)

// Gateway 生成网关：把组装好的提示词发给外部文本生成服务
// 单次尝试、单条提示词；不重试、不改写提示词，重试策略由调用方决定。
type Gateway struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewGateway 创建生成网关
func NewGateway(chatModel model.BaseChatModel, timeout time.Duration, logger zerolog.Logger) *Gateway {
	return &Gateway{
		chatModel: chatModel,
		timeout:   timeout,
		logger:    logger.With().Str("component", "generation_gateway").Logger(),
	}
}

// GenerateText 发起一次生成调用，返回原始生成文本或类型化错误
func (g *Gateway) GenerateText(ctx context.Context, req *prompt.Request) (string, error) {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		{Role: schema.User, Content: req.Prompt},
	}

	start := time.Now()
	resp, err := g.chatModel.Generate(callCtx, messages,
		model.WithModel(req.Options.Model),
		model.WithMaxTokens(req.Options.MaxTokens),
		model.WithTemperature(float32(req.Options.Temperature)),
	)
	elapsed := time.Since(start)

	if err != nil {
		g.logger.Error().
			Err(err).
			Str("use_case", string(req.UseCase)).
			Dur("elapsed", elapsed).
			Msg("生成调用失败")
		return "", classifyError(err)
	}

	if resp == nil {
		return "", newGenerationError(ErrMalformedResponse, 0, "模型返回了空消息")
	}

	g.logger.Info().
		Str("use_case", string(req.UseCase)).
		Int("output_chars", len([]rune(resp.Content))).
		Dur("elapsed", elapsed).
		Msg("生成调用完成")

	return resp.Content, nil
}

// classifyError 把底层错误归入封闭的错误类别
// 已经类型化的错误原样传递，其余(超时、连接中断等)一律归为传输错误。
func classifyError(err error) error {
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrService) || errors.Is(err, ErrMalformedResponse) {
		return err
	}
	return newGenerationError(ErrTransport, 0, err.Error())
}
