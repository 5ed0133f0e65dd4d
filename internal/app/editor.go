package app

import "strings"

// editor is the inline single-line editor shown over the active cell in
// edit mode. The buffer lives here until a commit writes it through the
// engine, so canceling an edit never touches the sheet.
type editor struct {
	buffer []rune
	cursor int
}

// seed loads text into the editor and places the cursor at the end.
func (e *editor) seed(text string) {
	e.buffer = []rune(text)
	e.cursor = len(e.buffer)
}

// insert adds text at the cursor. Tabs and newlines fold to spaces so a
// bracketed paste cannot smuggle cell separators into one cell.
func (e *editor) insert(text string) {
	text = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, text)
	runes := []rune(text)
	e.buffer = append(e.buffer[:e.cursor], append(runes, e.buffer[e.cursor:]...)...)
	e.cursor += len(runes)
}

// backspace removes the rune before the cursor.
func (e *editor) backspace() {
	if e.cursor == 0 {
		return
	}
	e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
	e.cursor--
}

// deleteForward removes the rune under the cursor.
func (e *editor) deleteForward() {
	if e.cursor >= len(e.buffer) {
		return
	}
	e.buffer = append(e.buffer[:e.cursor], e.buffer[e.cursor+1:]...)
}

func (e *editor) left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *editor) right() {
	if e.cursor < len(e.buffer) {
		e.cursor++
	}
}

func (e *editor) home() {
	e.cursor = 0
}

func (e *editor) end() {
	e.cursor = len(e.buffer)
}

// text returns the buffer contents.
func (e *editor) text() string {
	return string(e.buffer)
}
