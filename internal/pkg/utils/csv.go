// CSV 导出工具包
// 提供列表数据的 CSV 导出，兼容 Excel（UTF-8 BOM 前缀）
package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// UTF8BOM Excel 识别 UTF-8 编码所需的字节序标记
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVFileName 生成导出文件名：<模块名>_<YYYY-MM-DD>.csv
// moduleName: 模块显示名（如 "비용관리"）
// now: 导出时刻
func CSVFileName(moduleName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", moduleName, now.Format("2006-01-02"))
}

// EscapeCSVField 转义单个CSV字段
// 包含逗号、双引号或换行符的值用双引号包裹，内部双引号成对转义
// 其余值原样输出
func EscapeCSVField(value string) string {
	needQuote := false
	for _, r := range value {
		if r == ',' || r == '"' || r == '\n' || r == '\r' {
			needQuote = true
			break
		}
	}
	if !needQuote {
		return value
	}
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range value {
		if r == '"' {
			buf.WriteString(`""`)
			continue
		}
		buf.WriteRune(r)
	}
	buf.WriteByte('"')
	return buf.String()
}

// WriteCSV 将表头和数据行编码为带 BOM 前缀的 CSV 字节流
// header: 表头行
// rows: 数据行
// 返回: CSV 内容, 错误信息
func WriteCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(UTF8BOM)

	w := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("写入CSV表头失败: %v", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("写入CSV行失败: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("刷新CSV缓冲失败: %v", err)
	}

	return buf.Bytes(), nil
}
