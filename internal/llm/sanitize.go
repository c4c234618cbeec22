package llm

import "strings"

// Reasoning markers emitted by reasoning models ahead of the visible answer.
const (
	ReasoningOpenTag  = "<think>"
	ReasoningCloseTag = "</think>"
)

// SanitizeReasoning removes reasoning markup from model output.
//
// Paired <think>...</think> spans are dropped. An opening marker with no close
// hides everything after it, and a closing marker with no open hides everything
// before it. The function is idempotent. Use SanitizePartialReasoning on the
// prefix of a stream that has not ended yet.
func SanitizeReasoning(text string) string {
	for {
		clean := sanitizeOnce(text)
		if clean == text {
			return clean
		}
		text = clean
	}
}

// SanitizePartialReasoning sanitizes a growing prefix of a streamed response.
// It also holds back a trailing fragment of an opening marker (a stream that
// currently ends in "<thi"), which may still turn into reasoning.
func SanitizePartialReasoning(text string) string {
	return trimPartialOpenTag(SanitizeReasoning(text))
}

// sanitizeOnce never lengthens its input, so iterating it reaches a fixed point.
func sanitizeOnce(text string) string {
	var out strings.Builder

	for {
		open := strings.Index(text, ReasoningOpenTag)
		closing := strings.Index(text, ReasoningCloseTag)

		if open < 0 && closing < 0 {
			out.WriteString(text)
			break
		}

		if closing >= 0 && (open < 0 || closing < open) {
			// unmatched close: everything so far was reasoning
			out.Reset()
			text = text[closing+len(ReasoningCloseTag):]
			continue
		}

		out.WriteString(text[:open])
		rest := text[open+len(ReasoningOpenTag):]
		end := strings.Index(rest, ReasoningCloseTag)
		if end < 0 {
			break
		}
		text = rest[end+len(ReasoningCloseTag):]
	}

	return out.String()
}

// trimPartialOpenTag drops any suffix that could still grow into an opening marker.
func trimPartialOpenTag(text string) string {
	for {
		trimmed := text
		for n := len(ReasoningOpenTag) - 1; n > 0; n-- {
			if strings.HasSuffix(trimmed, ReasoningOpenTag[:n]) {
				trimmed = trimmed[:len(trimmed)-n]
				break
			}
		}
		if trimmed == text {
			return text
		}
		text = trimmed
	}
}
