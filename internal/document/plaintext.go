package document

import (
	"bytes"
	"strings"
)

// utf8BOM 部分编辑器保存的文本文件带BOM前缀
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodePlainText 纯文本直通解码
// 去掉BOM，把非法UTF-8字节替换为替换符，统一换行。
func decodePlainText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(bytes.ToValidUTF8(data, []byte("�")))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
