package document

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/masanarilee/ai-reactor-tools/internal/config"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// defaultKeywords 关键词过滤的内置领域词表
// 匹配到任一关键词的行开启一个新的保留段落，直到下一个关键词行或文本结束。
var defaultKeywords = []string{
	"経歴", "職歴", "業務", "スキル", "技術", "資格", "学歴",
	"自己PR", "開発環境", "環境", "プロジェクト", "案件",
	"単価", "単金", "期間", "勤務地", "場所", "面談", "稼働", "経験",
}

// Normalizer 把解码后的文本收敛到生成服务的输入预算内
// 文档文本和补足信息各有独立预算；所有上限来自构造时注入的配置，不读取环境全局。
type Normalizer struct {
	cfg      config.NormalizerConfig
	keywords []string
	logger   zerolog.Logger
}

// NewNormalizer 创建归一化器，未配置关键词时使用内置词表
func NewNormalizer(cfg config.NormalizerConfig, logger zerolog.Logger) *Normalizer {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	return &Normalizer{
		cfg:      cfg,
		keywords: keywords,
		logger:   logger.With().Str("component", "normalizer").Logger(),
	}
}

// Normalize 按来源角色归一化文本
// 文档文本：可选关键词过滤后按预算截断；补足信息：空白压缩后按预算截断。
func (n *Normalizer) Normalize(text string, source types.Provenance) types.NormalizedText {
	maxChars := n.cfg.DocumentMaxChars

	switch source {
	case types.FromNotes:
		maxChars = n.cfg.NotesMaxChars
		text = collapseWhitespace(text)
	default:
		text = strings.TrimSpace(text)
		if n.cfg.EnableKeywordFilter {
			text = n.filterByKeywords(text)
		}
	}

	truncated, wasTruncated := truncateAtSentence(text, maxChars)
	if wasTruncated {
		n.logger.Debug().
			Str("source", string(source)).
			Int("max_chars", maxChars).
			Msg("输入文本超过预算，已截断")
	}

	return types.NormalizedText{
		Text:         truncated,
		WasTruncated: wasTruncated,
	}
}

// truncateAtSentence 按rune数截断，尽量落在句末
// 上限内存在句号(。或.)时在最后一个句号处截断，否则硬截断。
func truncateAtSentence(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}

	head := runes[:maxChars]
	cut := -1
	for i := len(head) - 1; i >= 0; i-- {
		if head[i] == '。' || head[i] == '.' {
			cut = i
			break
		}
	}

	if cut >= 0 {
		return string(head[:cut+1]), true
	}
	return string(head), true
}

// filterByKeywords 逐行扫描，保留关键词行开启的段落
// 第一个关键词行之前的内容丢弃；完全没有命中时回退为全文，
// 空输入对组装器来说是缺陷而不是可接受的退化结果。
func (n *Normalizer) filterByKeywords(text string) string {
	lines := strings.Split(text, "\n")

	var (
		kept      []string
		inSection bool
		matched   bool
	)

	for _, line := range lines {
		if n.matchesKeyword(line) {
			kept = append(kept, line)
			inSection = true
			matched = true
			continue
		}
		if inSection && strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}

	if !matched {
		return text
	}
	return strings.Join(kept, "\n")
}

func (n *Normalizer) matchesKeyword(line string) bool {
	for _, kw := range n.keywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// collapseWhitespace 去掉首尾空白并把连续空白压成单个空格
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
