// Package sanitize cuts model output at the point where the model starts
// writing the other side of the conversation, before any directive in
// it is trusted.
package sanitize

import (
	"regexp"
	"slices"
	"strings"
)

// DefaultTerminalTokens mark a hallucinated continuation: chat-template
// control tokens and fabricated speaker labels.
var DefaultTerminalTokens = []string{
	"<start_of_turn>",
	"<end_of_turn>",
	"<end_of_start>",
	"<|end_of_text|>",
	"<|eot_id|>",
	"<|start_header_id|>",
	"<|end_header_id|>",
	"<|reserved_special_token_",
	"<|begin_of_text|>",
	"<|im_start|>",
	"<|im_end|>",
	"</s>",
	"User:",
	"Player:",
	"Human:",
	"System:",
	"Système:",
	"Système :",
	"Assistant:",
	"Assistant :",
	"Dungeon Master:",
	"Maître du Donjon:",
}

// StopSequences is the subset forwarded to the model server so generation
// halts early. The server caps how many it accepts.
var StopSequences = []string{
	"<|eot_id|>",
	"<end_of_turn>",
	"User:",
	"Player:",
}

// Some models open with their own speaker label; that is dropped rather
// than treated as a cut point.
var selfLabels = []string{
	"Dungeon Master:",
	"Maître du Donjon:",
	"Assistant:",
	"Assistant :",
}

var (
	leadingControlRegex = regexp.MustCompile(`^(?:<\|[a-z_]+\|>|<(?:start|end)_of_turn>)(?:\s*(?:model|assistant)\b)?\s*`)
	fragmentRegex       = regexp.MustCompile(`<\|[a-z_0-9]*\|?>?|</?(?:start|end)_of_(?:turn|start)>|</s>`)
	systemLabelRegex    = regexp.MustCompile(`(?im)^[ \t>*_(\[-]*(?:system|système|result|résultat|roll result|résultat du jet)\s*:`)
)

// Sanitizer truncates model text at terminal tokens
type Sanitizer struct {
	tokens []string
}

// New creates a sanitizer. Empty tokens use DefaultTerminalTokens.
func New(tokens []string) *Sanitizer {
	if len(tokens) == 0 {
		tokens = DefaultTerminalTokens
	}
	return &Sanitizer{tokens: slices.Clone(tokens)}
}

// Sanitize cuts raw at the earliest terminal token, then scrubs any
// control-token fragments that remain before the cut.
func (s *Sanitizer) Sanitize(raw string) string {
	text := s.dropLeadingNoise(strings.TrimSpace(raw))

	if cut := s.earliestToken(text); cut >= 0 {
		text = text[:cut]
	}

	text = fragmentRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func (s *Sanitizer) dropLeadingNoise(text string) string {
	for {
		before := text
		text = strings.TrimSpace(leadingControlRegex.ReplaceAllString(text, ""))
		for _, label := range selfLabels {
			if strings.HasPrefix(text, label) {
				text = strings.TrimSpace(text[len(label):])
			}
		}
		if text == before {
			return text
		}
	}
}

func (s *Sanitizer) earliestToken(text string) int {
	cut := -1
	for _, token := range s.tokens {
		if i := strings.Index(text, token); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	return cut
}

// TruncateAtDirective keeps text up to end, the byte offset just past a
// roll directive's closing brackets. Whatever the model wrote after the
// roll, including a guessed outcome, is discarded.
func (s *Sanitizer) TruncateAtDirective(text string, end int) string {
	if end <= 0 || end > len(text) {
		return text
	}
	return text[:end]
}

// TruncateAtSystemLabel cuts at a line that starts with a fabricated
// system or result label, in any case.
func (s *Sanitizer) TruncateAtSystemLabel(text string) string {
	loc := systemLabelRegex.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimRight(text[:loc[0]], " \t\n")
}
