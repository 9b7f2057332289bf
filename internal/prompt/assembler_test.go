package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{Model: "gpt-4o-mini", MaxTokens: 4096, Temperature: 0.7}

// TestAssembleTalentSummary 人材サマリ：文档文本绑定进模板
func TestAssembleTalentSummary(t *testing.T) {
	a := NewAssembler(testOptions)

	req, err := a.Assemble(UseCaseTalentSummary, map[string]string{
		PlaceholderResume: "Javaエンジニア 経験10年",
		PlaceholderNotes:  "単価80万円希望",
	})
	require.NoError(t, err)

	assert.Equal(t, UseCaseTalentSummary, req.UseCase)
	assert.Contains(t, req.Prompt, "Javaエンジニア 経験10年")
	assert.Contains(t, req.Prompt, "単価80万円希望")
	assert.Equal(t, testOptions, req.Options)
}

// TestAssembleMissingFieldFallback 缺失的可选字段绑定为「記載なし」
func TestAssembleMissingFieldFallback(t *testing.T) {
	a := NewAssembler(testOptions)

	req, err := a.Assemble(UseCaseTalentSummary, map[string]string{
		PlaceholderResume: "経歴書テキスト",
	})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, NotProvidedFallback)
}

// TestAssembleNoResidualPlaceholders 组装后的提示词不允许残留任何占位符
func TestAssembleNoResidualPlaceholders(t *testing.T) {
	a := NewAssembler(testOptions)

	for useCase, fields := range map[UseCase]map[string]string{
		UseCaseTalentSummary: {PlaceholderResume: "R"},
		UseCaseJobSummary:    {PlaceholderFileContent: "J"},
		UseCaseCounseling:    {PlaceholderFileContent: WrapCounselingDocument("C")},
		UseCaseCompanyAnalysis: {
			PlaceholderCompanyName:   "株式会社テスト",
			PlaceholderTargetService: "SES",
		},
		UseCaseScoutMessage: {
			PlaceholderResumeContent: "R",
			PlaceholderJobContent:    "J",
			PlaceholderCompanyName:   "株式会社テスト",
			PlaceholderRecruiterName: "山田",
		},
	} {
		req, err := a.Assemble(useCase, fields)
		require.NoError(t, err, "用例 %s 组装失败", useCase)
		assert.NotContains(t, req.Prompt, "{", "用例 %s 残留占位符", useCase)
	}
}

// TestAssembleInsufficientInput 各用例的最小输入校验
func TestAssembleInsufficientInput(t *testing.T) {
	a := NewAssembler(testOptions)

	cases := []struct {
		name    string
		useCase UseCase
		fields  map[string]string
	}{
		{"人材サマリ无任何输入", UseCaseTalentSummary, map[string]string{}},
		{"人材サマリ只有空白", UseCaseTalentSummary, map[string]string{PlaceholderResume: "   "}},
		{"案件サマリ无任何输入", UseCaseJobSummary, map[string]string{}},
		{"カウンセリング无任何输入", UseCaseCounseling, map[string]string{}},
		{"企業分析缺会社名", UseCaseCompanyAnalysis, map[string]string{PlaceholderTargetService: "SES"}},
		{"企業分析缺支援テーマ", UseCaseCompanyAnalysis, map[string]string{PlaceholderCompanyName: "株式会社テスト"}},
		{"スカウト缺案件文档", UseCaseScoutMessage, map[string]string{
			PlaceholderResumeContent: "R",
			PlaceholderCompanyName:   "株式会社テスト",
			PlaceholderRecruiterName: "山田",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Assemble(tc.useCase, tc.fields)
			assert.ErrorIs(t, err, ErrInsufficientInput)
		})
	}
}

// TestAssembleCompanyAnalysisOptionalFields 部署名和URL可选，缺失时绑定占位文案
func TestAssembleCompanyAnalysisOptionalFields(t *testing.T) {
	a := NewAssembler(testOptions)

	req, err := a.Assemble(UseCaseCompanyAnalysis, map[string]string{
		PlaceholderCompanyName:   "株式会社テスト",
		PlaceholderTargetService: "SES事業",
	})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "株式会社テスト")
	assert.Contains(t, req.Prompt, "SES事業")
	assert.Contains(t, req.Prompt, NotProvidedFallback)
}

// TestWrapCounselingDocument 经历书内容的条件包装
func TestWrapCounselingDocument(t *testing.T) {
	assert.Equal(t, "#経歴書の内容\nJavaエンジニア", WrapCounselingDocument("Javaエンジニア"))
	// 空内容不产生孤立的小节标题
	assert.Equal(t, "", WrapCounselingDocument(""))
	assert.Equal(t, "", WrapCounselingDocument("   \n  "))
}

// TestAssembleCounselingEmptyDocument 经历书缺失时提示词里不出现经历书小节
func TestAssembleCounselingEmptyDocument(t *testing.T) {
	a := NewAssembler(testOptions)

	req, err := a.Assemble(UseCaseCounseling, map[string]string{
		PlaceholderFileContent: WrapCounselingDocument(""),
		PlaceholderNotes:       "面談メモ",
	})
	require.NoError(t, err)

	assert.NotContains(t, req.Prompt, "#経歴書の内容")
	assert.Contains(t, req.Prompt, "面談メモ")
}

// TestTemplateSchemas 各用例模板声明的响应语法
func TestTemplateSchemas(t *testing.T) {
	counseling, err := TemplateFor(UseCaseCounseling)
	require.NoError(t, err)
	assert.Len(t, counseling.Schema.Fields, 4)

	company, err := TemplateFor(UseCaseCompanyAnalysis)
	require.NoError(t, err)
	assert.Len(t, company.Schema.Fields, 4)

	_, err = TemplateFor(UseCase("unknown"))
	assert.Error(t, err)
}

// TestAssembleIdempotent 相同输入多次组装产生完全相同的提示词
func TestAssembleIdempotent(t *testing.T) {
	a := NewAssembler(testOptions)
	fields := map[string]string{PlaceholderResume: "経歴書"}

	first, err := a.Assemble(UseCaseTalentSummary, fields)
	require.NoError(t, err)
	second, err := a.Assemble(UseCaseTalentSummary, fields)
	require.NoError(t, err)

	assert.True(t, strings.EqualFold(first.Prompt, second.Prompt))
	assert.Equal(t, first.Prompt, second.Prompt)
}
