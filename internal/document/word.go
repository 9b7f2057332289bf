package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"unicode"
	"unicode/utf16"

	"github.com/nguyenthenguyen/docx"

	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

var (
	// word/document.xml 中的段落结束标签，转成换行
	wordParagraphEnd = regexp.MustCompile(`(?i)</w:p>`)
	// 制表符标签
	wordTab = regexp.MustCompile(`(?i)<w:tab[^>]*/>`)
	// 其余所有XML标签直接丢弃
	wordAnyTag = regexp.MustCompile(`<[^>]+>`)
)

// decodeWord 提取Word文档的正文文本，丢弃格式、页眉页脚和内嵌对象
// .docx 走标准解析；旧版 .doc 没有ZIP结构，退化为可打印文本扫描。
func (d *Decoder) decodeWord(doc *types.SourceDocument) (string, error) {
	if !isZipArchive(doc.Data) {
		// 旧版二进制 .doc
		text := scanLegacyDocText(doc.Data)
		if text == "" {
			return "", newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
				"旧版.doc文档未能提取到可用文本")
		}
		return text, nil
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
			fmt.Sprintf("docx解析失败: %v", err))
	}
	defer r.Close()

	return stripWordMarkup(r.Editable().GetContent()), nil
}

// stripWordMarkup 把document.xml的内容还原为纯文本
func stripWordMarkup(content string) string {
	content = wordParagraphEnd.ReplaceAllString(content, "\n")
	content = wordTab.ReplaceAllString(content, "\t")
	content = wordAnyTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

func isZipArchive(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte{'P', 'K', 0x03, 0x04})
}

// scanLegacyDocText 对旧版.doc做尽力而为的文本提取
// WordDocument流中的正文通常按UTF-16LE存储，这里收集足够长的可打印rune序列。
func scanLegacyDocText(data []byte) string {
	const minRunLength = 8

	var (
		out []rune
		run []rune
	)

	flush := func() {
		if len(run) >= minRunLength {
			if len(out) > 0 {
				out = append(out, '\n')
			}
			out = append(out, run...)
		}
		run = run[:0]
	}

	for i := 0; i+1 < len(data); i += 2 {
		u := uint16(data[i]) | uint16(data[i+1])<<8
		r := utf16.Decode([]uint16{u})[0]
		if unicode.IsPrint(r) || r == '\t' {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return string(out)
}
