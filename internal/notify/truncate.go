package notify

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// MaxMessageLength is the Bot API limit on sendMessage text, counted in
// UTF-16 code units.
const MaxMessageLength = 4096

const paragraphSep = "\n\n"

// Truncate fits text into limit by dropping whole paragraphs from the end and
// appending "…and N more", where N counts the dropped paragraphs that carried
// content. Paragraphs never split, so HTML tags stay balanced, unless the
// first one alone is too long. The second result reports whether text changed.
func Truncate(text string, limit int) (string, bool) {
	if textLength(text) <= limit {
		return text, false
	}

	paras := strings.Split(text, paragraphSep)
	reserve := len(paragraphSep) + textLength(moreSuffix(len(paras)))

	kept, used := 0, 0
	for ; kept < len(paras); kept++ {
		n := textLength(paras[kept])
		if kept > 0 {
			n += len(paragraphSep)
		}
		if used+n+reserve > limit {
			break
		}
		used += n
	}
	for kept > 0 && isRule(paras[kept-1]) {
		kept--
	}

	if kept == 0 {
		head := cut(paras[0], limit-reserve)
		return head + paragraphSep + moreSuffix(countContent(paras[1:])), true
	}
	return strings.Join(paras[:kept], paragraphSep) + paragraphSep + moreSuffix(countContent(paras[kept:])), true
}

func moreSuffix(n int) string {
	return fmt.Sprintf("…and %d more", n)
}

func countContent(paras []string) int {
	n := 0
	for _, p := range paras {
		if strings.TrimSpace(p) != "" && !isRule(p) {
			n++
		}
	}
	return n
}

// isRule reports a separator line made only of box-drawing dashes.
func isRule(p string) bool {
	p = strings.TrimSpace(p)
	return p != "" && strings.Trim(p, "─") == ""
}

// cut returns the longest prefix of s, ending on a line break when there is
// one, that fits in limit.
func cut(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	used := 0
	for i, r := range s {
		used += utf16.RuneLen(r)
		if used > limit {
			s = s[:i]
			if nl := strings.LastIndex(s, "\n"); nl > 0 {
				s = s[:nl]
			}
			return s
		}
	}
	return s
}

func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
