package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var counselingSchema = Schema{
	Grammar: GrammarBracket,
	Fields: []Field{
		{Name: "summary", Title: "人材要約"},
		{Name: "concerns", Title: "懸念点"},
		{Name: "questions", Title: "質問例"},
		{Name: "careerPlan", Title: "キャリアプラン"},
	},
	Terminator: "#補足情報",
}

var companySchema = Schema{
	Grammar: GrammarNumbered,
	Fields: []Field{
		{Name: "overview", Title: "企業概要"},
		{Name: "marketAnalysis", Title: "市場環境"},
		{Name: "challenges", Title: "課題仮説"},
		{Name: "proposal", Title: "提案内容"},
	},
}

// TestParseBracket 括号语法的基本切分
func TestParseBracket(t *testing.T) {
	raw := "【人材要約】\nA\n\n【懸念点】\nB"

	result := Parse(raw, counselingSchema)

	assert.Equal(t, "A", result["summary"])
	assert.Equal(t, "B", result["concerns"])
	// 缺失的小节取空字符串，不是错误
	assert.Equal(t, "", result["questions"])
	assert.Equal(t, "", result["careerPlan"])
}

// TestParseBracketTwoFieldSchema 语法不绑定具体用例，任意字段表都适用
func TestParseBracketTwoFieldSchema(t *testing.T) {
	schema := Schema{
		Grammar: GrammarBracket,
		Fields: []Field{
			{Name: "overview", Title: "企業概要"},
			{Name: "marketAnalysis", Title: "市場環境"},
		},
	}

	result := Parse("【企業概要】A\n\n【市場環境】B", schema)

	assert.Equal(t, StructuredSummary{"overview": "A", "marketAnalysis": "B"}, result)
}

// TestParseBracketMultiline 小节内容可以跨多行，空行被压掉
func TestParseBracketMultiline(t *testing.T) {
	raw := "【人材要約】\nJavaエンジニア。\n\n経験10年。\n【質問例】\n・現年収は？\n・稼働時期は？"

	result := Parse(raw, counselingSchema)

	assert.Equal(t, "Javaエンジニア。\n経験10年。", result["summary"])
	// 开头的项目符号被剥掉，正文行内的保持原样
	assert.Equal(t, "現年収は？\n・稼働時期は？", result["questions"])
}

// TestParseBracketUnknownTitle 未声明的标题被忽略，不影响已知小节
func TestParseBracketUnknownTitle(t *testing.T) {
	raw := "【前置き】\nこれは無視される\n【人材要約】\nA"

	result := Parse(raw, counselingSchema)

	assert.Equal(t, "A", result["summary"])
}

// TestParseBracketTitleEcho 模型把标题重复进正文时回显行被剔除
func TestParseBracketTitleEcho(t *testing.T) {
	raw := "【懸念点】\n懸念点\n単価が高い"

	result := Parse(raw, counselingSchema)

	assert.Equal(t, "単価が高い", result["concerns"])
}

// TestParseBracketTerminator 终止标记之后的回显内容不进入最后一个小节
func TestParseBracketTerminator(t *testing.T) {
	raw := "【キャリアプラン】\nPMを目指す\n#補足情報\n単価80万円"

	result := Parse(raw, counselingSchema)

	assert.Equal(t, "PMを目指す", result["careerPlan"])
}

// TestParseNumbered 编号语法按声明顺序对位
func TestParseNumbered(t *testing.T) {
	raw := "1. foo\nbar\n\n2. baz"

	result := Parse(raw, companySchema)

	assert.Equal(t, "foo\nbar", result["overview"])
	assert.Equal(t, "baz", result["marketAnalysis"])
	assert.Equal(t, "", result["challenges"])
	assert.Equal(t, "", result["proposal"])
}

// TestParseNumberedExtraSections 超出声明字段数的编号小节被丢弃
func TestParseNumberedExtraSections(t *testing.T) {
	raw := "1. A\n2. B\n3. C\n4. D\n5. E"

	result := Parse(raw, companySchema)

	assert.Equal(t, "A", result["overview"])
	assert.Equal(t, "D", result["proposal"])
	assert.Len(t, result, 4)
}

// TestParseNumberedMarkerShape 编号必须是行首"整数+句点+空白"才算边界
func TestParseNumberedMarkerShape(t *testing.T) {
	raw := "1. 概要です\n売上は1.5億円\n\n2. 市場"

	result := Parse(raw, companySchema)

	// "1.5億円"不在行首编号位置，不会被误切
	assert.Equal(t, "概要です\n売上は1.5億円", result["overview"])
	assert.Equal(t, "市場", result["marketAnalysis"])
}

// TestParseNone 无语法用例不做任何切分
func TestParseNone(t *testing.T) {
	result := Parse("自由なテキスト", Schema{Grammar: GrammarNone})
	assert.Empty(t, result)
}

// TestParseEmptyInput 空输入产生全空字段
func TestParseEmptyInput(t *testing.T) {
	result := Parse("", counselingSchema)

	assert.Len(t, result, 4)
	for name, content := range result {
		assert.Equal(t, "", content, "字段 %s 应为空", name)
	}
}

// TestParseIdempotent 同一输入多次解析得到相同结果
func TestParseIdempotent(t *testing.T) {
	raw := "【人材要約】\nA\n【懸念点】\n・B"

	first := Parse(raw, counselingSchema)
	second := Parse(raw, counselingSchema)

	assert.Equal(t, first, second)
}
