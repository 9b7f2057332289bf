package processor

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masanarilee/ai-reactor-tools/internal/config"
	"github.com/masanarilee/ai-reactor-tools/internal/document"
	"github.com/masanarilee/ai-reactor-tools/internal/llm"
	"github.com/masanarilee/ai-reactor-tools/internal/prompt"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// MockDecoder 模拟文档解码器
type MockDecoder struct {
	text     string
	warnings []string
	err      error
	calls    int
}

func (m *MockDecoder) Decode(ctx context.Context, doc *types.SourceDocument) (*types.ExtractedText, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &types.ExtractedText{Text: m.text, Source: types.FromDocument, Warnings: m.warnings}, nil
}

// MockGenerator 模拟文本生成器
type MockGenerator struct {
	response string
	err      error
	lastReq  *prompt.Request
	calls    int
}

func (m *MockGenerator) GenerateText(ctx context.Context, req *prompt.Request) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestProcessor(decoder *MockDecoder, generator *MockGenerator) *DocumentProcessor {
	normalizer := document.NewNormalizer(config.NormalizerConfig{
		DocumentMaxChars: 15000,
		NotesMaxChars:    3000,
	}, zerolog.Nop())
	assembler := prompt.NewAssembler(prompt.Options{Model: "gpt-4o-mini", MaxTokens: 4096, Temperature: 0.7})

	return NewDocumentProcessor(&Components{
		Decoder:    decoder,
		Normalizer: normalizer,
		Assembler:  assembler,
		Generator:  generator,
	})
}

func testDoc() *types.SourceDocument {
	return &types.SourceDocument{Data: []byte("raw"), MediaType: "text/plain", Filename: "resume.txt"}
}

// TestGenerateTalentSummary 文档经历完整流水线后产出文本报告
func TestGenerateTalentSummary(t *testing.T) {
	decoder := &MockDecoder{text: "Javaエンジニア 経験10年", warnings: []string{"第2页文本提取失败"}}
	generator := &MockGenerator{response: "■ サマリ本文"}
	p := newTestProcessor(decoder, generator)

	report, err := p.GenerateTalentSummary(context.Background(), testDoc(), "単価80万円")
	require.NoError(t, err)

	assert.Equal(t, "■ サマリ本文", report.Content)
	assert.Equal(t, []string{"第2页文本提取失败"}, report.Warnings)
	assert.False(t, report.Truncated)
	// 文档文本和补足信息都进入了提示词
	assert.Contains(t, generator.lastReq.Prompt, "Javaエンジニア 経験10年")
	assert.Contains(t, generator.lastReq.Prompt, "単価80万円")
	assert.Equal(t, prompt.UseCaseTalentSummary, generator.lastReq.UseCase)
}

// TestGenerateTalentSummaryNotesOnly 没有文档时仅凭补足信息也能生成
func TestGenerateTalentSummaryNotesOnly(t *testing.T) {
	decoder := &MockDecoder{}
	generator := &MockGenerator{response: "サマリ"}
	p := newTestProcessor(decoder, generator)

	report, err := p.GenerateTalentSummary(context.Background(), nil, "補足だけの入力")
	require.NoError(t, err)

	assert.Equal(t, "サマリ", report.Content)
	assert.Zero(t, decoder.calls)
}

// TestInsufficientInputBeforeGenerate 最小输入不足时在任何生成调用之前失败
func TestInsufficientInputBeforeGenerate(t *testing.T) {
	generator := &MockGenerator{response: "呼ばれないはず"}
	p := newTestProcessor(&MockDecoder{}, generator)

	_, err := p.GenerateTalentSummary(context.Background(), nil, "")

	assert.ErrorIs(t, err, prompt.ErrInsufficientInput)
	assert.Zero(t, generator.calls)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, StageAssembling, pipeErr.Stage)
	assert.Equal(t, prompt.UseCaseTalentSummary, pipeErr.UseCase)
}

// TestDecodeErrorWrapped 解码失败带着阶段上下文向上传播
func TestDecodeErrorWrapped(t *testing.T) {
	decoder := &MockDecoder{err: document.ErrUnsupportedFormat}
	generator := &MockGenerator{}
	p := newTestProcessor(decoder, generator)

	_, err := p.GenerateJobSummary(context.Background(), testDoc(), "")

	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
	assert.Zero(t, generator.calls)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, StageDecoding, pipeErr.Stage)
}

// TestGenerateErrorWrapped 生成失败带着阶段上下文向上传播
func TestGenerateErrorWrapped(t *testing.T) {
	generator := &MockGenerator{err: llm.ErrService}
	p := newTestProcessor(&MockDecoder{text: "本文"}, generator)

	_, err := p.GenerateJobSummary(context.Background(), testDoc(), "")

	assert.ErrorIs(t, err, llm.ErrService)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, StageGenerating, pipeErr.Stage)
}

// TestGenerateCounselingReport 括号语法的模型输出被切分为四个小节
func TestGenerateCounselingReport(t *testing.T) {
	raw := strings.Join([]string{
		"【人材要約】",
		"Javaエンジニア、経験10年。",
		"【懸念点】",
		"・単価が高め",
		"【質問例】",
		"・稼働時期は？",
		"【キャリアプラン】",
		"PMを目指したい",
	}, "\n")
	generator := &MockGenerator{response: raw}
	p := newTestProcessor(&MockDecoder{text: "経歴書本文"}, generator)

	report, err := p.GenerateCounselingReport(context.Background(), testDoc(), "面談メモ")
	require.NoError(t, err)

	assert.Equal(t, "Javaエンジニア、経験10年。", report.Summary)
	assert.Equal(t, "単価が高め", report.Concerns)
	assert.Equal(t, "稼働時期は？", report.Questions)
	assert.Equal(t, "PMを目指したい", report.CareerPlan)
	// 经历书内容被包装进小节标题
	assert.Contains(t, generator.lastReq.Prompt, "#経歴書の内容\n経歴書本文")
}

// TestGenerateCounselingReportMissingSections 模型漏掉的小节取空值而不是报错
func TestGenerateCounselingReportMissingSections(t *testing.T) {
	generator := &MockGenerator{response: "【人材要約】\nAのみ"}
	p := newTestProcessor(&MockDecoder{text: "本文"}, generator)

	report, err := p.GenerateCounselingReport(context.Background(), testDoc(), "")
	require.NoError(t, err)

	assert.Equal(t, "Aのみ", report.Summary)
	assert.Equal(t, "", report.Concerns)
	assert.Equal(t, "", report.Questions)
	assert.Equal(t, "", report.CareerPlan)
}

// TestGenerateCompanyAnalysis 编号语法的模型输出按声明顺序对位
func TestGenerateCompanyAnalysis(t *testing.T) {
	raw := "1. SESを主軸とするIT企業\n\n2. 市場は拡大傾向\n\n3. エンジニア採用が課題\n\n4. 採用支援サービスを提案"
	generator := &MockGenerator{response: raw}
	p := newTestProcessor(&MockDecoder{}, generator)

	report, err := p.GenerateCompanyAnalysis(context.Background(), types.CompanyAnalysisInput{
		CompanyName:   "株式会社テスト",
		TargetService: "採用支援",
	})
	require.NoError(t, err)

	assert.Equal(t, "SESを主軸とするIT企業", report.Overview)
	assert.Equal(t, "市場は拡大傾向", report.MarketAnalysis)
	assert.Equal(t, "エンジニア採用が課題", report.Challenges)
	assert.Equal(t, "採用支援サービスを提案", report.Proposal)
}

// TestGenerateCompanyAnalysisMissingRequired 会社名缺失时不发起生成
func TestGenerateCompanyAnalysisMissingRequired(t *testing.T) {
	generator := &MockGenerator{}
	p := newTestProcessor(&MockDecoder{}, generator)

	_, err := p.GenerateCompanyAnalysis(context.Background(), types.CompanyAnalysisInput{
		TargetService: "採用支援",
	})

	assert.ErrorIs(t, err, prompt.ErrInsufficientInput)
	assert.Zero(t, generator.calls)
}

// TestGenerateScoutMessage 两份文档和两个表单字段齐备时生成
func TestGenerateScoutMessage(t *testing.T) {
	decoder := &MockDecoder{text: "共通の抽出テキスト"}
	generator := &MockGenerator{response: "スカウトメール本文"}
	p := newTestProcessor(decoder, generator)

	report, err := p.GenerateScoutMessage(context.Background(), testDoc(), testDoc(), "株式会社テスト", "山田")
	require.NoError(t, err)

	assert.Equal(t, "スカウトメール本文", report.Content)
	assert.Equal(t, 2, decoder.calls)
	assert.Contains(t, generator.lastReq.Prompt, "株式会社テスト")
	assert.Contains(t, generator.lastReq.Prompt, "山田")
}

// TestGenerateScoutMessageMissingJobDoc 案件文档缺失算输入不足
func TestGenerateScoutMessageMissingJobDoc(t *testing.T) {
	generator := &MockGenerator{}
	p := newTestProcessor(&MockDecoder{text: "経歴書"}, generator)

	_, err := p.GenerateScoutMessage(context.Background(), testDoc(), nil, "株式会社テスト", "山田")

	assert.ErrorIs(t, err, prompt.ErrInsufficientInput)
	assert.Zero(t, generator.calls)
}

// TestPipelineIdempotent 相同输入重复调用产生相同的提示词和结果
func TestPipelineIdempotent(t *testing.T) {
	generator := &MockGenerator{response: "決定的な出力"}
	p := newTestProcessor(&MockDecoder{text: "本文"}, generator)

	first, err := p.GenerateTalentSummary(context.Background(), testDoc(), "メモ")
	require.NoError(t, err)
	firstPrompt := generator.lastReq.Prompt

	second, err := p.GenerateTalentSummary(context.Background(), testDoc(), "メモ")
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, firstPrompt, generator.lastReq.Prompt)
}

// TestCategorize 错误到UI类别的封闭映射
func TestCategorize(t *testing.T) {
	cases := []struct {
		err      error
		expected Category
	}{
		{newPipelineError(prompt.UseCaseTalentSummary, StageDecoding, document.ErrUnsupportedFormat), CategoryFormat},
		{newPipelineError(prompt.UseCaseTalentSummary, StageDecoding, document.ErrFileTooLarge), CategorySize},
		{newPipelineError(prompt.UseCaseTalentSummary, StageDecoding, document.ErrEmptyExtraction), CategoryContent},
		{newPipelineError(prompt.UseCaseTalentSummary, StageAssembling, prompt.ErrInsufficientInput), CategoryInput},
		{newPipelineError(prompt.UseCaseTalentSummary, StageGenerating, llm.ErrTransport), CategoryService},
		{newPipelineError(prompt.UseCaseTalentSummary, StageGenerating, llm.ErrService), CategoryService},
		{newPipelineError(prompt.UseCaseTalentSummary, StageGenerating, llm.ErrMalformedResponse), CategoryService},
		{context.DeadlineExceeded, CategoryInternal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, Categorize(tc.err))
	}
}
