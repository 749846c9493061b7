// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides low-level terminal manipulation helpers.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines erases previously printed text from the terminal.
// textLength is the total number of characters the text occupied (prompt plus
// user input); the line count is derived from the current terminal width so
// wrapped input is cleared fully. Used by the connect command to wipe the
// connection-string prompt, which may contain a password, right after entry.
func ClearPreviousLines(textLength int) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	for i, lines := 0, lineCount(textLength, width); i < lines; i++ {
		fmt.Print("\r\x1b[2K") // clear the entire current line
		if i < lines-1 {
			fmt.Print("\x1b[1A") // move up one line
		}
	}
}

// lineCount returns how many terminal lines the text occupied, plus one for
// the fresh line the cursor lands on after Enter.
func lineCount(textLength, width int) int {
	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	return lines + 1
}
