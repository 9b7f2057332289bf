package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// OLE2复合文档的魔数。旧版BIFF工作簿(.xls)用这种容器，OOXML工作簿(.xlsx)是ZIP容器。
var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// decodeExcel 把工作簿的每个sheet序列化为文本块
// 每个sheet以 "Sheet: 名称" 开头，行内单元格以逗号分隔，按工作簿内顺序拼接。
// 按容器魔数分发到BIFF或OOXML解析器，两种容器输出同样的文本布局。
// 多sheet时的逐sheet进度只作为日志事件输出，不影响返回值。
func (d *Decoder) decodeExcel(doc *types.SourceDocument) (string, []string, error) {
	if bytes.HasPrefix(doc.Data, ole2Signature) {
		return d.decodeLegacyExcel(doc)
	}

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		return "", nil, newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
			fmt.Sprintf("工作簿解析失败: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	total := len(sheets)

	var (
		sb       strings.Builder
		warnings []string
	)

	for i, sheetName := range sheets {
		d.logSheetProgress(doc.Filename, sheetName, i+1, total)

		rows, err := f.GetRows(sheetName)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("sheet %q 读取失败: %v", sheetName, err))
			continue
		}

		writeSheetText(&sb, sheetName, rows)
	}

	return sb.String(), warnings, nil
}

// decodeLegacyExcel 解码BIFF格式的旧版工作簿
// 底层库在畸形的复合文档上可能panic，统一降级为提取失败。
func (d *Decoder) decodeLegacyExcel(doc *types.SourceDocument) (text string, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
				fmt.Sprintf("旧版工作簿解析异常: %v", r))
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(doc.Data))
	if err != nil {
		return "", nil, newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType,
			fmt.Sprintf("旧版工作簿解析失败: %v", err))
	}

	sheets := workbook.GetSheets()
	total := len(sheets)

	var sb strings.Builder
	for i := range sheets {
		sheet := &sheets[i]
		sheetName := sheet.GetName()
		d.logSheetProgress(doc.Filename, sheetName, i+1, total)

		var rows [][]string
		for r := 0; r < sheet.GetNumberRows(); r++ {
			row, err := sheet.GetRow(r)
			if err != nil {
				continue
			}
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}

		writeSheetText(&sb, sheetName, rows)
	}

	return sb.String(), nil, nil
}

// writeSheetText 追加单个sheet的文本块
func writeSheetText(sb *strings.Builder, sheetName string, rows [][]string) {
	sb.WriteString("Sheet: ")
	sb.WriteString(sheetName)
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (d *Decoder) logSheetProgress(filename, sheetName string, index, total int) {
	if total <= 1 {
		return
	}
	d.logger.Info().
		Str("filename", filename).
		Str("sheet", sheetName).
		Int("index", index).
		Int("total", total).
		Msg("正在处理工作簿sheet")
}
