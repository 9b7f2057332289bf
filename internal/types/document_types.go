package types

// SourceDocument 上传的原始文档
// 字节内容只在一次解码中被消费，不做任何持久化。
type SourceDocument struct {
	// 原始字节
	Data []byte
	// 声明的媒体类型，可能为空或为通用类型(application/octet-stream)
	MediaType string
	// 原始文件名，用于扩展名回退匹配
	Filename string
}

// Provenance 文本来源
type Provenance string

const (
	// FromDocument 来自上传文档的解码结果
	FromDocument Provenance = "document"
	// FromNotes 来自用户手输的补足信息
	FromNotes Provenance = "notes"
)

// ExtractedText 解码器产出的纯文本
type ExtractedText struct {
	// UTF-8文本
	Text string
	// 文本来源
	Source Provenance
	// 解码过程中的非致命警告(例如某一页PDF提取失败)
	Warnings []string
}

// NormalizedText 经过截断和可选关键词过滤后的文本
type NormalizedText struct {
	Text string
	// 是否发生了截断，供调用方向用户提示
	WasTruncated bool
}
