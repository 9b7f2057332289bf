package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app/server"
	hlog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/masanarilee/ai-reactor-tools/internal/api/handler"
	"github.com/masanarilee/ai-reactor-tools/internal/api/router"
	"github.com/masanarilee/ai-reactor-tools/internal/config"
	"github.com/masanarilee/ai-reactor-tools/internal/document"
	"github.com/masanarilee/ai-reactor-tools/internal/llm"
	"github.com/masanarilee/ai-reactor-tools/internal/logger"
	"github.com/masanarilee/ai-reactor-tools/internal/processor"
	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	// .env 不存在时静默跳过，API密钥也可以直接来自进程环境
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logger.Init(cfg.Logger)
	hlog.SetLogger(hertzadapter.From(logger.Logger))
	logger.Info().Str("address", cfg.Server.Address).Msg("配置加载成功")

	openaiModel, err := llm.NewOpenAICompatChatModel(cfg.Generation, logger.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化生成模型失败")
	}

	var chatModel model.BaseChatModel = openaiModel
	if cfg.Generation.RequestsPerMinute > 0 {
		chatModel = llm.NewRateLimitedChatModel(openaiModel, cfg.Generation.RequestsPerMinute)
		logger.Info().Int("rpm", cfg.Generation.RequestsPerMinute).Msg("生成调用限流已启用")
	}

	gateway := llm.NewGateway(chatModel, time.Duration(cfg.Generation.TimeoutSeconds)*time.Second, logger.Logger)
	decoder := document.NewDecoder(cfg.Document, logger.Logger)
	normalizer := document.NewNormalizer(cfg.Normalizer, logger.Logger)
	assembler := prompt.NewAssembler(prompt.Options{
		Model:       cfg.Generation.Model,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	})

	docProcessor := processor.NewDocumentProcessor(&processor.Components{
		Decoder:    decoder,
		Normalizer: normalizer,
		Assembler:  assembler,
		Generator:  gateway,
	}, processor.WithLogger(logger.Logger))

	generateHandler := handler.NewGenerateHandler(docProcessor)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(int(cfg.Document.MaxFileSizeBytes)*2),
		server.WithHandleMethodNotAllowed(true),
	)
	router.RegisterRoutes(h, generateHandler)
	logger.Info().Msg("HTTP路由注册成功")

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}
