package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pyaillet/doggy/internal/tui"
)

// LineEditor is a single line text buffer with a cursor.
// The cursor always stays within [0, len(buffer)].
type LineEditor struct {
	buf    []rune
	cursor int
}

// Value returns the current text.
func (e *LineEditor) Value() string {
	return string(e.buf)
}

// Cursor returns the cursor position in runes.
func (e *LineEditor) Cursor() int {
	return e.cursor
}

// Set replaces the text and moves the cursor to the end.
func (e *LineEditor) Set(s string) {
	e.buf = []rune(s)
	e.cursor = len(e.buf)
}

// Reset clears the text.
func (e *LineEditor) Reset() {
	e.buf = nil
	e.cursor = 0
}

// Insert adds runes at the cursor.
func (e *LineEditor) Insert(rs ...rune) {
	buf := make([]rune, 0, len(e.buf)+len(rs))
	buf = append(buf, e.buf[:e.cursor]...)
	buf = append(buf, rs...)
	buf = append(buf, e.buf[e.cursor:]...)
	e.buf = buf
	e.cursor += len(rs)
}

// Backspace removes the rune before the cursor.
func (e *LineEditor) Backspace() {
	if e.cursor == 0 {
		return
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
}

// Delete removes the rune under the cursor.
func (e *LineEditor) Delete() {
	if e.cursor >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
}

func (e *LineEditor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *LineEditor) Right() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func (e *LineEditor) Home() {
	e.cursor = 0
}

func (e *LineEditor) End() {
	e.cursor = len(e.buf)
}

// HandleKey applies an editing key and reports whether it was one.
func (e *LineEditor) HandleKey(k tui.Key) bool {
	switch k.Code {
	case "backspace":
		e.Backspace()
	case "delete":
		e.Delete()
	case "left":
		e.Left()
	case "right":
		e.Right()
	case "home", "ctrl+a":
		e.Home()
	case "end", "ctrl+e":
		e.End()
	default:
		if !k.IsRune() {
			return false
		}
		e.Insert(k.Runes...)
	}
	return true
}

// View renders prompt and text within width cells, scrolling horizontally
// so the cursor stays visible.
func (e *LineEditor) View(prompt string, width int) string {
	avail := width - runewidth.StringWidth(prompt) - 1
	if avail < 1 {
		avail = 1
	}

	start := 0
	for runewidth.StringWidth(string(e.buf[start:e.cursor])) > avail {
		start++
	}

	var b strings.Builder
	b.WriteString(prompt)
	used := 0
	for i := start; i <= len(e.buf); i++ {
		ch := " "
		if i < len(e.buf) {
			ch = string(e.buf[i])
		}
		w := runewidth.StringWidth(ch)
		if used+w > avail+1 {
			break
		}
		used += w
		if i == e.cursor {
			b.WriteString(cursorStyle.Render(ch))
		} else {
			b.WriteString(ch)
		}
	}
	return b.String()
}
