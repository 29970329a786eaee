package app

import (
	"slices"
	"strings"
)

// TextBuffer is an editable rune buffer with a cursor.
type TextBuffer struct {
	runes     []rune
	cursor    int
	multiline bool
}

// NewTextBuffer returns a buffer holding value with the cursor at the end.
func NewTextBuffer(value string, multiline bool) TextBuffer {
	if !multiline {
		value = flattenLine(value)
	}
	runes := []rune(value)
	return TextBuffer{runes: runes, cursor: len(runes), multiline: multiline}
}

// Value returns the buffer contents.
func (b TextBuffer) Value() string {
	return string(b.runes)
}

// Cursor returns the cursor offset in runes.
func (b TextBuffer) Cursor() int {
	return b.cursor
}

// Multiline reports whether the buffer accepts newlines.
func (b TextBuffer) Multiline() bool {
	return b.multiline
}

// Clone returns a copy that shares no storage with b.
func (b TextBuffer) Clone() TextBuffer {
	b.runes = slices.Clone(b.runes)
	return b
}

// Insert inserts text at the cursor.
func (b *TextBuffer) Insert(text string) {
	if !b.multiline {
		text = flattenLine(text)
	}
	if text == "" {
		return
	}
	ins := []rune(text)
	b.runes = slices.Insert(b.runes, b.cursor, ins...)
	b.cursor += len(ins)
}

// Backspace removes the rune before the cursor.
func (b *TextBuffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.runes = slices.Delete(b.runes, b.cursor-1, b.cursor)
	b.cursor--
}

// DeleteForward removes the rune under the cursor.
func (b *TextBuffer) DeleteForward() {
	if b.cursor >= len(b.runes) {
		return
	}
	b.runes = slices.Delete(b.runes, b.cursor, b.cursor+1)
}

// Left moves the cursor one rune left.
func (b *TextBuffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Right moves the cursor one rune right.
func (b *TextBuffer) Right() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// Home moves the cursor to the start of the buffer.
func (b *TextBuffer) Home() {
	b.cursor = 0
}

// End moves the cursor to the end of the buffer.
func (b *TextBuffer) End() {
	b.cursor = len(b.runes)
}

// flattenLine replaces line breaks so single-line fields stay on one line.
func flattenLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
