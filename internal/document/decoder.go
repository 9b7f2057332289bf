package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/masanarilee/ai-reactor-tools/internal/config"
	"github.com/masanarilee/ai-reactor-tools/internal/types"
)

// format 内部格式标识，决定分发到哪个具体解码器
type format int

const (
	formatUnknown format = iota
	formatPDF
	formatWord
	formatExcel
	formatText
)

// 声明的MIME类型到内部格式的映射
var mimeFormats = map[string]format{
	"application/pdf":    formatPDF,
	"application/msword": formatWord,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": formatWord,
	"application/vnd.ms-excel": formatExcel,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": formatExcel,
	"text/plain": formatText,
}

// 扩展名回退映射，声明类型缺失或过于泛化时使用
var extFormats = map[string]format{
	".pdf":  formatPDF,
	".doc":  formatWord,
	".docx": formatWord,
	".xls":  formatExcel,
	".xlsx": formatExcel,
	".txt":  formatText,
	".md":   formatText,
}

// Decoder 负责把上传文档的原始字节转换为UTF-8纯文本
// 按声明MIME类型优先分发，类型缺失或为通用类型时先做内容嗅探，再回退到扩展名。
type Decoder struct {
	cfg    config.DocumentConfig
	logger zerolog.Logger
}

// NewDecoder 创建文档解码器
func NewDecoder(cfg config.DocumentConfig, logger zerolog.Logger) *Decoder {
	return &Decoder{
		cfg:    cfg,
		logger: logger.With().Str("component", "decoder").Logger(),
	}
}

// Decode 解码单个上传文档
// 超过大小上限的输入在任何格式解析开始之前直接拒绝。
func (d *Decoder) Decode(ctx context.Context, doc *types.SourceDocument) (*types.ExtractedText, error) {
	if int64(len(doc.Data)) > d.cfg.MaxFileSizeBytes {
		return nil, newDecodeError(ErrFileTooLarge, doc.Filename, doc.MediaType,
			fmt.Sprintf("%d 字节，上限 %d 字节", len(doc.Data), d.cfg.MaxFileSizeBytes))
	}

	f := d.resolveFormat(doc)
	if f == formatUnknown {
		return nil, newDecodeError(ErrUnsupportedFormat, doc.Filename, doc.MediaType, "")
	}

	var (
		text     string
		warnings []string
		err      error
	)

	switch f {
	case formatPDF:
		text, warnings, err = d.decodePDF(doc)
	case formatWord:
		text, err = d.decodeWord(doc)
	case formatExcel:
		text, warnings, err = d.decodeExcel(doc)
	case formatText:
		text = decodePlainText(doc.Data)
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, newDecodeError(ErrEmptyExtraction, doc.Filename, doc.MediaType, "")
	}

	d.logger.Debug().
		Str("filename", doc.Filename).
		Int("chars", len([]rune(text))).
		Int("warnings", len(warnings)).
		Msg("文档解码完成")

	return &types.ExtractedText{
		Text:     text,
		Source:   types.FromDocument,
		Warnings: warnings,
	}, nil
}

// resolveFormat 确定文档的内部格式
func (d *Decoder) resolveFormat(doc *types.SourceDocument) format {
	declared := normalizeMediaType(doc.MediaType)

	if declared != "" && !isGenericMediaType(declared) {
		if f, ok := mimeFormats[declared]; ok {
			return f
		}
		// text/* 一律按纯文本处理
		if strings.HasPrefix(declared, "text/") {
			return formatText
		}
	}

	// 声明类型缺失或过于泛化时，先尝试内容嗅探
	// 嗅探结果对文本类型会带charset参数，同样先归一化再查表
	if declared == "" || isGenericMediaType(declared) {
		sniffed := normalizeMediaType(mimetype.Detect(doc.Data).String())
		if f, ok := mimeFormats[sniffed]; ok {
			d.logger.Debug().
				Str("filename", doc.Filename).
				Str("sniffed", sniffed).
				Msg("按内容嗅探确定了文档格式")
			return f
		}
		if strings.HasPrefix(sniffed, "text/") {
			return formatText
		}
	}

	// 最后回退到扩展名
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return formatUnknown
}

// normalizeMediaType 去掉参数部分并统一小写，例如 "text/plain; charset=utf-8" -> "text/plain"
func normalizeMediaType(mediaType string) string {
	mt := strings.TrimSpace(strings.ToLower(mediaType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}

func isGenericMediaType(mediaType string) bool {
	return mediaType == "application/octet-stream" || mediaType == "binary/octet-stream"
}
