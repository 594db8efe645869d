package common

import "strings"

// Span marks a half-open [Start, End) byte range in a source text.
type Span struct {
	Start int
	End   int
}

// SplitSentenceSpans breaks guideline text into sentence spans. Boundaries
// are '.', ';', '!' and '?' followed by whitespace or end of text; decimal
// points inside numbers (e.g. "7.0%") do not split.
func SplitSentenceSpans(text string) []Span {
	var spans []Span
	start := 0

	flush := func(end int) {
		s, e := trimSpan(text, start, end)
		if s < e {
			spans = append(spans, Span{Start: s, End: e})
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != ';' && c != '!' && c != '?' {
			continue
		}
		// A period between digits is a decimal point, not a boundary.
		if c == '.' && i > 0 && i+1 < len(text) && isDigit(text[i-1]) && isDigit(text[i+1]) {
			continue
		}
		if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
			flush(i + 1)
		}
	}
	if start < len(text) {
		flush(len(text))
	}
	return spans
}

// SplitSentences is SplitSentenceSpans materialized as strings.
func SplitSentences(text string) []string {
	spans := SplitSentenceSpans(text)
	sentences := make([]string, 0, len(spans))
	for _, sp := range spans {
		sentences = append(sentences, text[sp.Start:sp.End])
	}
	return sentences
}

func trimSpan(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Normalize canonicalizes a value string for comparison: lowercased,
// whitespace runs collapsed, and spaces dropped around unit punctuation so
// "7.0 %" and "7.0%" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " %", "%")
	s = strings.ReplaceAll(s, " /", "/")
	s = strings.ReplaceAll(s, "/ ", "/")
	return s
}
