package notifier

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`</?[a-zA-Z]+[^>]*>`)

// splitMessage breaks HTML text into parts of at most maxMessageLength runes.
// Cuts fall only on line breaks where every tag is closed, so each part parses on its own.
// A single balanced block longer than the limit is sent as plain text.
func splitMessage(text string) []string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return []string{text}
	}
	var (
		parts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.Trim(cur.String(), "\n"); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
	}
	for _, block := range balancedBlocks(text) {
		n := utf8.RuneCountInString(block)
		if n > maxMessageLength {
			flush()
			parts = append(parts, plainChunks(block)...)
			continue
		}
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+n > maxMessageLength {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(block)
	}
	flush()
	return parts
}

// balancedBlocks groups lines so that no tag opened in a block is closed in another.
func balancedBlocks(text string) []string {
	var (
		blocks []string
		lines  []string
		depth  int
	)
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, line)
		for _, tag := range tagPattern.FindAllString(line, -1) {
			if strings.HasPrefix(tag, "</") {
				depth--
			} else {
				depth++
			}
		}
		if depth <= 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
			lines, depth = nil, 0
		}
	}
	if len(lines) > 0 {
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return blocks
}

// plainChunks drops the markup from block and cuts it to size, never inside an entity.
func plainChunks(block string) []string {
	r := []rune(tagPattern.ReplaceAllString(block, ""))
	var out []string
	for len(r) > 0 {
		n := min(len(r), maxMessageLength)
		if n < len(r) {
			if amp := lastRune(r[:n], '&'); amp > 0 && lastRune(r[amp:n], ';') < 0 {
				n = amp
			}
		}
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	return out
}

func lastRune(r []rune, target rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == target {
			return i
		}
	}
	return -1
}
