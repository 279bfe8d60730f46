package parser

import "strings"

// RawDocument 简历原文按行切分后的只读视图
// 每行已去除首尾空白，空行已移除，用于定位姓名等单行字段
type RawDocument struct {
	lines []string
}

// NewRawDocument 统一换行符后按行切分，去掉空行
func NewRawDocument(text string) RawDocument {
	var lines []string
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return RawDocument{lines: lines}
}

// Len 返回非空行数
func (d RawDocument) Len() int {
	return len(d.lines)
}

// Line 返回第 i 行，越界时返回空字符串
func (d RawDocument) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// FirstLine 返回第一行非空文本
func (d RawDocument) FirstLine() string {
	return d.Line(0)
}

// splitLines 统一换行符后按行切分，保留空行和行内缩进
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
