// Package ansi handles terminal escape sequences in text the launcher reads
// from child processes or writes to a terminal.
package ansi

import "strings"

// ShowCursor makes a hidden terminal cursor visible again.
const ShowCursor = "\x1b[?25h"

// Strip removes ANSI escape sequences from a string. A trailing sequence
// that never terminates is kept as is.
func Strip(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}

	var b, pending strings.Builder

	for _, r := range s {
		if r == '\x1b' {
			b.WriteString(pending.String())
			pending.Reset()
			pending.WriteRune(r)

			continue
		}

		if pending.Len() > 0 {
			pending.WriteRune(r)

			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				pending.Reset()
			}

			continue
		}

		b.WriteRune(r)
	}

	b.WriteString(pending.String())

	return b.String()
}
