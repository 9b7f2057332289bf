package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// decodePDF 逐页提取PDF文本
// 单页提取失败只记为警告并继续，全部页都没有文本时才算失败。
// 页内文本块以单个空格连接，页与页之间以换行分隔。
func (d *Decoder) decodePDF(doc *types.SourceDocument) (string, []string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", nil, newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
			fmt.Sprintf("PDF解析失败: %v", err))
	}

	var (
		pages    []string
		warnings []string
	)

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		pageText, err := extractPDFPage(reader, i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("第%d页文本提取失败: %v", i, err))
			d.logger.Warn().
				Str("filename", doc.Filename).
				Int("page", i).
				Err(err).
				Msg("PDF单页提取失败，继续处理后续页")
			continue
		}
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	if len(pages) == 0 {
		return "", warnings, newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
			fmt.Sprintf("共%d页均未提取到文本", numPages))
	}

	return strings.Join(pages, "\n"), warnings, nil
}

// extractPDFPage 提取单页的文本块
// 底层库在损坏的内容流上可能panic，这里转换为普通错误由调用方按页降级。
func extractPDFPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("内容流解析异常: %v", r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("页面对象为空")
	}

	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}

	// 把页内的换行和连续空白压成单个空格，页间分隔由调用方负责
	return strings.Join(strings.Fields(raw), " "), nil
}
