package processor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
	"github.com/masanarilee/ai-reactor-tools/internal/summary"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// Components 流水线各阶段的组件聚合
type Components struct {
	Decoder    DocumentDecoder
	Normalizer TextNormalizer
	Assembler  PromptAssembler
	Generator  TextGenerator
}

// DocumentProcessor 文档生成流水线的编排器
// 每次调用都是独立的纯函数式流程：字节 → 文本 → 归一化文本 → 提示词 → 生成文本 → 结构化结果。
// 各次调用之间不共享任何可变状态，可以安全并发。
type DocumentProcessor struct {
	components *Components
	logger     zerolog.Logger
}

// Option 处理器的配置选项
type Option func(*DocumentProcessor)

// WithLogger 配置自定义日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return func(p *DocumentProcessor) {
		p.logger = logger
	}
}

// NewDocumentProcessor 创建流水线编排器
func NewDocumentProcessor(components *Components, opts ...Option) *DocumentProcessor {
	p := &DocumentProcessor{
		components: components,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateTalentSummary 人材サマリ生成
// 职务经历书和补足信息至少需要其中之一。
func (p *DocumentProcessor) GenerateTalentSummary(ctx context.Context, doc *types.SourceDocument, notes string) (*types.TextReport, error) {
	return p.generateText(ctx, prompt.UseCaseTalentSummary, doc, notes, prompt.PlaceholderResume)
}

// GenerateJobSummary 案件サマリ生成
func (p *DocumentProcessor) GenerateJobSummary(ctx context.Context, doc *types.SourceDocument, notes string) (*types.TextReport, error) {
	return p.generateText(ctx, prompt.UseCaseJobSummary, doc, notes, prompt.PlaceholderFileContent)
}

// generateText 单文本用例的公共流程：解码 → 归一化 → 组装 → 生成
func (p *DocumentProcessor) generateText(ctx context.Context, useCase prompt.UseCase, doc *types.SourceDocument, notes string, docPlaceholder string) (*types.TextReport, error) {
	var meta types.ReportMeta

	docText, err := p.prepareDocument(ctx, useCase, doc, &meta)
	if err != nil {
		return nil, err
	}
	notesText := p.prepareNotes(notes, &meta)

	req, err := p.components.Assembler.Assemble(useCase, map[string]string{
		docPlaceholder:          docText,
		prompt.PlaceholderNotes: notesText,
	})
	if err != nil {
		return nil, newPipelineError(useCase, StageAssembling, err)
	}

	raw, err := p.components.Generator.GenerateText(ctx, req)
	if err != nil {
		return nil, newPipelineError(useCase, StageGenerating, err)
	}

	return &types.TextReport{Content: raw, ReportMeta: meta}, nil
}

// GenerateCounselingReport カウンセリングレポート生成
// 模型输出按括号语法切分为人材要約/懸念点/質問例/キャリアプラン四个小节。
func (p *DocumentProcessor) GenerateCounselingReport(ctx context.Context, doc *types.SourceDocument, notes string) (*types.CounselingReport, error) {
	useCase := prompt.UseCaseCounseling
	var meta types.ReportMeta

	docText, err := p.prepareDocument(ctx, useCase, doc, &meta)
	if err != nil {
		return nil, err
	}
	notesText := p.prepareNotes(notes, &meta)

	req, err := p.components.Assembler.Assemble(useCase, map[string]string{
		prompt.PlaceholderFileContent: prompt.WrapCounselingDocument(docText),
		prompt.PlaceholderNotes:       notesText,
	})
	if err != nil {
		return nil, newPipelineError(useCase, StageAssembling, err)
	}

	raw, err := p.components.Generator.GenerateText(ctx, req)
	if err != nil {
		return nil, newPipelineError(useCase, StageGenerating, err)
	}

	sections := p.parseSections(useCase, raw)
	return &types.CounselingReport{
		Summary:    sections["summary"],
		Concerns:   sections["concerns"],
		Questions:  sections["questions"],
		CareerPlan: sections["careerPlan"],
		ReportMeta: meta,
	}, nil
}

// GenerateCompanyAnalysis 企業分析レポート生成
// 不涉及文档解码；模型输出按编号语法对位切分为四个小节。
func (p *DocumentProcessor) GenerateCompanyAnalysis(ctx context.Context, input types.CompanyAnalysisInput) (*types.CompanyAnalysisReport, error) {
	useCase := prompt.UseCaseCompanyAnalysis

	req, err := p.components.Assembler.Assemble(useCase, map[string]string{
		prompt.PlaceholderCompanyName:   input.CompanyName,
		prompt.PlaceholderDivisionName:  input.DivisionName,
		prompt.PlaceholderWebsiteURL:    input.WebsiteURL,
		prompt.PlaceholderTargetService: input.TargetService,
	})
	if err != nil {
		return nil, newPipelineError(useCase, StageAssembling, err)
	}

	raw, err := p.components.Generator.GenerateText(ctx, req)
	if err != nil {
		return nil, newPipelineError(useCase, StageGenerating, err)
	}

	sections := p.parseSections(useCase, raw)
	return &types.CompanyAnalysisReport{
		Overview:       sections["overview"],
		MarketAnalysis: sections["marketAnalysis"],
		Challenges:     sections["challenges"],
		Proposal:       sections["proposal"],
	}, nil
}

// GenerateScoutMessage スカウトメール生成
// 需要候选人经历书和案件文档各一份，外加公司名与担当者名。
func (p *DocumentProcessor) GenerateScoutMessage(ctx context.Context, resumeDoc, jobDoc *types.SourceDocument, companyName, recruiterName string) (*types.TextReport, error) {
	useCase := prompt.UseCaseScoutMessage
	var meta types.ReportMeta

	resumeText, err := p.prepareDocument(ctx, useCase, resumeDoc, &meta)
	if err != nil {
		return nil, err
	}
	jobText, err := p.prepareDocument(ctx, useCase, jobDoc, &meta)
	if err != nil {
		return nil, err
	}

	req, err := p.components.Assembler.Assemble(useCase, map[string]string{
		prompt.PlaceholderResumeContent: resumeText,
		prompt.PlaceholderJobContent:    jobText,
		prompt.PlaceholderCompanyName:   companyName,
		prompt.PlaceholderRecruiterName: recruiterName,
	})
	if err != nil {
		return nil, newPipelineError(useCase, StageAssembling, err)
	}

	raw, err := p.components.Generator.GenerateText(ctx, req)
	if err != nil {
		return nil, newPipelineError(useCase, StageGenerating, err)
	}

	return &types.TextReport{Content: raw, ReportMeta: meta}, nil
}

// prepareDocument 解码并归一化单个上传文档，nil文档返回空文本
// 解码警告和截断标记累积到meta，由调用方决定如何向用户呈现。
func (p *DocumentProcessor) prepareDocument(ctx context.Context, useCase prompt.UseCase, doc *types.SourceDocument, meta *types.ReportMeta) (string, error) {
	if doc == nil || len(doc.Data) == 0 {
		return "", nil
	}

	extracted, err := p.components.Decoder.Decode(ctx, doc)
	if err != nil {
		return "", newPipelineError(useCase, StageDecoding, err)
	}
	meta.Warnings = append(meta.Warnings, extracted.Warnings...)

	normalized := p.components.Normalizer.Normalize(extracted.Text, types.FromDocument)
	if normalized.WasTruncated {
		meta.Truncated = true
	}
	return normalized.Text, nil
}

// prepareNotes 归一化用户手输的补足信息
func (p *DocumentProcessor) prepareNotes(notes string, meta *types.ReportMeta) string {
	if notes == "" {
		return ""
	}
	normalized := p.components.Normalizer.Normalize(notes, types.FromNotes)
	if normalized.WasTruncated {
		meta.Truncated = true
	}
	return normalized.Text
}

// parseSections 按用例模板声明的语法切分模型输出
func (p *DocumentProcessor) parseSections(useCase prompt.UseCase, raw string) summary.StructuredSummary {
	tmpl, err := prompt.TemplateFor(useCase)
	if err != nil {
		// 模板表在定义时固定，运行期取不到属于编程错误
		p.logger.Error().Err(err).Str("use_case", string(useCase)).Msg("用例模板缺失")
		return summary.StructuredSummary{}
	}
	return summary.Parse(raw, tmpl.Schema)
}
