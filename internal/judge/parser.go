package judge

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// parseStrategy 从原始回复中提取一个候选JSON文本。
// 返回false表示该策略不适用于这段文本。
type parseStrategy func(content string) (string, bool)

// 修复策略按顺序逐一尝试，第一个解析成功的结果胜出。
// 顺序：直接解析 -> 剥掉代码围栏 -> 提取花括号配对子串 -> 丢弃首个花括号前的杂质
var parseStrategies = []parseStrategy{
	parseDirect,
	parseStripCodeFence,
	parseBracePattern,
	parseAfterFirstBrace,
}

var bracePattern = regexp.MustCompile(`(?s)\{.*\}`)

func parseDirect(content string) (string, bool) {
	return content, true
}

// parseStripCodeFence 处理被markdown代码块包裹的回复，
// 带语言标签（```json）和不带标签（```）的都能剥掉。
func parseStripCodeFence(content string) (string, bool) {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		start := idx + len("```json")
		end := strings.LastIndex(content, "```")
		if start < end {
			return strings.TrimSpace(content[start:end]), true
		}
	}
	if strings.HasPrefix(content, "```") {
		start := len("```")
		end := strings.LastIndex(content, "```")
		if start < end {
			return strings.TrimSpace(content[start:end]), true
		}
	}
	return "", false
}

// parseBracePattern 在文本中寻找第一段花括号配对的类对象子串。
func parseBracePattern(content string) (string, bool) {
	match := bracePattern.FindString(content)
	if match == "" {
		return "", false
	}
	return match, true
}

// parseAfterFirstBrace 丢弃首个左花括号之前的所有杂质字符（例如开头的"**"）。
func parseAfterFirstBrace(content string) (string, bool) {
	idx := strings.IndexByte(content, '{')
	if idx <= 0 {
		return "", false
	}
	return content[idx:], true
}

// extractJSON 依次应用修复策略，把裁判的原始回复解析进out。
// 全部策略失败时返回 *ParseError。
func extractJSON(content string, out any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &ParseError{Content: content}
	}

	for _, strategy := range parseStrategies {
		candidate, ok := strategy(trimmed)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), out); err == nil {
			return nil
		}
	}
	return &ParseError{Content: content}
}

// firstRune 把超过一个码点的emoji截断为首个码点。
func firstRune(s string) string {
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}
