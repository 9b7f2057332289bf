package summary

import (
	"regexp"
	"strings"
)

// Grammar 模型输出的小节分隔语法
// 每个提示词模板在定义时就固定自己保证的语法，解析时不做语法探测。
type Grammar int

const (
	// GrammarNone 整段文本即结果，不做小节切分
	GrammarNone Grammar = iota
	// GrammarBracket 以【标题】作为小节边界
	GrammarBracket
	// GrammarNumbered 以行首 "N. " 编号作为小节边界，字段按模板声明顺序对位
	GrammarNumbered
)

// Field 响应结构中一个逻辑字段的声明
type Field struct {
	// 逻辑字段名，UI侧据此取值
	Name string
	// 括号语法下匹配的小节标题(不含【】)；编号语法下仅用于剔除标题回显行
	Title string
}

// Schema 某一用例的响应结构声明：语法 + 字段顺序
type Schema struct {
	Grammar Grammar
	Fields  []Field
	// Terminator 可选的整体终止标记(例如提示词尾部回显的 "#補足情報")
	// 小节内容在终止标记处截止
	Terminator string
}

// StructuredSummary 逻辑字段名到小节内容的映射
// 小节在输出中缺失时字段取空字符串，这不是错误；全空结果也是合法结果。
type StructuredSummary map[string]string

// bracketMarker 匹配【标题】形式的小节标记
var bracketMarker = regexp.MustCompile(`【([^】]*)】`)

// numberedMarker 匹配行首的 "1. " 形式的编号标记(整数+句点+空白)
var numberedMarker = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+`)

// Parse 按声明的语法把模型的自由文本输出切分为命名小节
func Parse(rawText string, schema Schema) StructuredSummary {
	result := make(StructuredSummary, len(schema.Fields))
	for _, f := range schema.Fields {
		result[f.Name] = ""
	}

	switch schema.Grammar {
	case GrammarBracket:
		parseBracket(rawText, schema, result)
	case GrammarNumbered:
		parseNumbered(rawText, schema, result)
	}

	return result
}

// parseBracket 括号语法：小节内容从一个【标题】之后延伸到下一个【或文本结尾
// 未声明的标题直接忽略；已知标题按精确匹配映射到字段。
func parseBracket(rawText string, schema Schema, result StructuredSummary) {
	titleToField := make(map[string]Field, len(schema.Fields))
	for _, f := range schema.Fields {
		titleToField[f.Title] = f
	}

	matches := bracketMarker.FindAllStringSubmatchIndex(rawText, -1)
	for i, m := range matches {
		title := rawText[m[2]:m[3]]
		field, ok := titleToField[title]
		if !ok {
			continue
		}

		start := m[1] // 】之后
		end := len(rawText)
		if i+1 < len(matches) {
			end = matches[i+1][0] // 下一个【之前
		}

		result[field.Name] = cleanSection(cutAtTerminator(rawText[start:end], schema.Terminator), field.Title)
	}
}

// parseNumbered 编号语法：第N个编号小节对应schema中第N个声明字段
func parseNumbered(rawText string, schema Schema, result StructuredSummary) {
	matches := numberedMarker.FindAllStringSubmatchIndex(rawText, -1)
	for i, m := range matches {
		if i >= len(schema.Fields) {
			break
		}
		field := schema.Fields[i]

		start := m[1] // 编号之后
		end := len(rawText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		result[field.Name] = cleanSection(cutAtTerminator(rawText[start:end], schema.Terminator), field.Title)
	}
}

// cutAtTerminator 在终止标记处截断小节内容
func cutAtTerminator(content, terminator string) string {
	if terminator == "" {
		return content
	}
	if idx := strings.Index(content, terminator); idx >= 0 {
		return content[:idx]
	}
	return content
}

// cleanSection 小节内容的统一后处理
// 去首尾空白、丢弃只是重复小节标题的行、剥掉内容开头的项目符号。
// 正文行中的项目符号属于内容本身，保持原样。
func cleanSection(content, title string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isTitleEcho(line, title) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return trimLeadingBullet(strings.TrimSpace(strings.Join(cleaned, "\n")))
}

// isTitleEcho 判断一行是否只是小节标题的回显
func isTitleEcho(line, title string) bool {
	if title == "" {
		return false
	}
	return line == title || line == "【"+title+"】"
}

// 小节内容开头可能出现的项目符号
var leadingBullets = []string{"・", "- ", "* ", "•"}

func trimLeadingBullet(s string) string {
	for _, b := range leadingBullets {
		if strings.HasPrefix(s, b) {
			return strings.TrimSpace(strings.TrimPrefix(s, b))
		}
	}
	return s
}
