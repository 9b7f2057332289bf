package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/masanarilee/ai-reactor-tools/internal/api/handler"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, generateHandler *handler.GenerateHandler) {
	api := h.Group("/api/v1")

	generate := api.Group("/generate")
	generate.POST("/talent-summary", generateHandler.HandleTalentSummary)
	generate.POST("/job-summary", generateHandler.HandleJobSummary)
	generate.POST("/counseling-report", generateHandler.HandleCounselingReport)
	generate.POST("/company-analysis", generateHandler.HandleCompanyAnalysis)
	generate.POST("/scout-message", generateHandler.HandleScoutMessage)

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
