package pool

import (
	"strconv"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// DefaultPool is the pool used when a session does not name one.
const DefaultPool = "emoji"

var emojiSymbols = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
	"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
	"🐧", "🐦", "🐤", "🦆", "🦅", "🦉", "🦇", "🐺",
	"🐗", "🐴", "🦄", "🐝", "🐛", "🦋", "🐌", "🐞",
	"🐢", "🐍", "🦎", "🐙", "🦑", "🦀", "🐡", "🐠",
	"🐟", "🐬", "🐳", "🦈", "🐊", "🐅", "🐆", "🦓",
	"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓",
	"🍒", "🍑", "🍍", "🥝", "🥑", "🍆", "🥕", "🌽",
}

func letterSymbols() []string {
	out := make([]string, 0, 52)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, string(c))
	}
	return out
}

func numberSymbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// Builtins returns the pools that are always available, keyed by ID.
func Builtins() map[string]*engine.SymbolPool {
	return map[string]*engine.SymbolPool{
		"emoji": {
			Name:        "Emoji",
			Description: "Animals and fruit",
			Symbols:     append([]string(nil), emojiSymbols...),
		},
		"letters": {
			Name:        "Letters",
			Description: "Upper and lower case Latin letters",
			Symbols:     letterSymbols(),
		},
		"numbers": {
			Name:        "Numbers",
			Description: "The numbers 1 to 144",
			Symbols:     numberSymbols(144),
		},
	}
}
