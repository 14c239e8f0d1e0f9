package chat

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// EstimateTokens counts tokens with the cl100k_base encoding. When the
// encoder cannot be loaded it falls back to a rune-based heuristic, good
// enough for debug logging.
func EstimateTokens(text string) int {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})

	if tk == nil {
		return utf8.RuneCountInString(text) / 4
	}
	return len(tk.Encode(text, nil, nil))
}
