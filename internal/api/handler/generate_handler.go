package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/gofrs/uuid/v5"

	"github.com/masanarilee/ai-reactor-tools/internal/logger"
	"github.com/masanarilee/ai-reactor-tools/internal/processor"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// GenerateHandler 五个生成用例的HTTP处理器
type GenerateHandler struct {
	processor *processor.DocumentProcessor
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(p *processor.DocumentProcessor) *GenerateHandler {
	return &GenerateHandler{processor: p}
}

// HandleTalentSummary 人材サマリ生成
// 表单字段：file(可选的职务经历书)、supplementary_info(可选的补足信息)，至少提供其一。
func (h *GenerateHandler) HandleTalentSummary(c context.Context, ctx *app.RequestContext) {
	reqID := newRequestID()
	doc, err := readUploadedDocument(ctx, "file")
	if err != nil {
		writeUploadError(ctx, reqID, err)
		return
	}
	notes := string(ctx.FormValue("supplementary_info"))

	report, err := h.processor.GenerateTalentSummary(c, doc, notes)
	if err != nil {
		writeGenerationError(ctx, reqID, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// HandleJobSummary 案件サマリ生成
// 表单字段与人材サマリ相同：file(案件概要文档)、supplementary_info。
func (h *GenerateHandler) HandleJobSummary(c context.Context, ctx *app.RequestContext) {
	reqID := newRequestID()
	doc, err := readUploadedDocument(ctx, "file")
	if err != nil {
		writeUploadError(ctx, reqID, err)
		return
	}
	notes := string(ctx.FormValue("supplementary_info"))

	report, err := h.processor.GenerateJobSummary(c, doc, notes)
	if err != nil {
		writeGenerationError(ctx, reqID, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// HandleCounselingReport カウンセリングレポート生成
func (h *GenerateHandler) HandleCounselingReport(c context.Context, ctx *app.RequestContext) {
	reqID := newRequestID()
	doc, err := readUploadedDocument(ctx, "file")
	if err != nil {
		writeUploadError(ctx, reqID, err)
		return
	}
	notes := string(ctx.FormValue("supplementary_info"))

	report, err := h.processor.GenerateCounselingReport(c, doc, notes)
	if err != nil {
		writeGenerationError(ctx, reqID, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// HandleCompanyAnalysis 企業分析レポート生成
// 纯表单输入：company_name与target_service必填，division_name与website_url可选。
func (h *GenerateHandler) HandleCompanyAnalysis(c context.Context, ctx *app.RequestContext) {
	reqID := newRequestID()
	input := types.CompanyAnalysisInput{
		CompanyName:   string(ctx.FormValue("company_name")),
		DivisionName:  string(ctx.FormValue("division_name")),
		WebsiteURL:    string(ctx.FormValue("website_url")),
		TargetService: string(ctx.FormValue("target_service")),
	}

	report, err := h.processor.GenerateCompanyAnalysis(c, input)
	if err != nil {
		writeGenerationError(ctx, reqID, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// HandleScoutMessage スカウトメール生成
// 表单字段：resume_file、job_file两份文档，外加company_name与recruiter_name。
func (h *GenerateHandler) HandleScoutMessage(c context.Context, ctx *app.RequestContext) {
	reqID := newRequestID()
	resumeDoc, err := readUploadedDocument(ctx, "resume_file")
	if err != nil {
		writeUploadError(ctx, reqID, err)
		return
	}
	jobDoc, err := readUploadedDocument(ctx, "job_file")
	if err != nil {
		writeUploadError(ctx, reqID, err)
		return
	}
	companyName := string(ctx.FormValue("company_name"))
	recruiterName := string(ctx.FormValue("recruiter_name"))

	report, err := h.processor.GenerateScoutMessage(c, resumeDoc, jobDoc, companyName, recruiterName)
	if err != nil {
		writeGenerationError(ctx, reqID, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// readUploadedDocument 读取可选的multipart文件字段
// 字段缺失返回(nil, nil)，由下游的最小输入校验决定是否可以接受。
func readUploadedDocument(ctx *app.RequestContext, field string) (*types.SourceDocument, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		// hertz在字段不存在时返回错误，这里视为"未上传"
		return nil, nil
	}
	return documentFromFileHeader(fileHeader)
}

func documentFromFileHeader(fileHeader *multipart.FileHeader) (*types.SourceDocument, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &types.SourceDocument{
		Data:      data,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Filename:  fileHeader.Filename,
	}, nil
}

// newRequestID 每次请求生成一个UUIDv7用于日志关联
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return ""
	}
	return id.String()
}

// writeUploadError 读取上传文件本身失败(IO错误)的响应
func writeUploadError(ctx *app.RequestContext, reqID string, err error) {
	logger.Error().Err(err).Str("request_id", reqID).Msg("读取上传文件失败")
	ctx.JSON(http.StatusBadRequest, utils.H{
		"error":      "アップロードされたファイルを読み取れませんでした",
		"category":   string(processor.CategoryInternal),
		"request_id": reqID,
	})
}

// writeGenerationError 把流水线错误映射为HTTP状态码和面向用户的日文消息
func writeGenerationError(ctx *app.RequestContext, reqID string, err error) {
	category := processor.Categorize(err)
	status, message := uiMessageFor(category)

	logger.Error().
		Err(err).
		Str("request_id", reqID).
		Str("category", string(category)).
		Msg("生成请求失败")

	ctx.JSON(status, utils.H{
		"error":      message,
		"category":   string(category),
		"request_id": reqID,
	})
}

// uiMessageFor 封闭的错误类别到UI消息的映射
func uiMessageFor(category processor.Category) (int, string) {
	switch category {
	case processor.CategoryFormat:
		return http.StatusBadRequest, "サポートされていないファイル形式です。PDF・Word・Excel・テキストファイルをご利用ください"
	case processor.CategorySize:
		return http.StatusBadRequest, "ファイルサイズが上限（10MB）を超えています"
	case processor.CategoryContent:
		return http.StatusUnprocessableEntity, "ファイルからテキストを抽出できませんでした。別のファイルをお試しください"
	case processor.CategoryInput:
		return http.StatusBadRequest, "生成に必要な入力が不足しています。ファイルまたは入力項目をご確認ください"
	case processor.CategoryService:
		return http.StatusBadGateway, "生成サービスの呼び出しに失敗しました。しばらくしてから再度お試しください"
	default:
		return http.StatusInternalServerError, "内部エラーが発生しました"
	}
}
