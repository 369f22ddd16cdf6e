// Package editor models rich-text editing of post content as a pure reducer:
// Apply takes the current State and a Command and returns the next State.
// Nothing here touches a rendering surface.
package editor

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/eringen/modernblog/sanitize"
)

// State is the editor content plus the current selection as byte offsets.
// Offsets inside a multi-byte character snap back to its first byte.
// Start == End is a caret.
type State struct {
	Content string `json:"content"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Selected returns the selected text of a normalized state.
func (s State) Selected() string {
	s = s.normalize()
	return s.Content[s.Start:s.End]
}

func (s State) normalize() State {
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > len(s.Content) {
			return len(s.Content)
		}
		// Never split a multi-byte character.
		for i > 0 && i < len(s.Content) && !utf8.RuneStart(s.Content[i]) {
			i--
		}
		return i
	}
	s.Start, s.End = clamp(s.Start), clamp(s.End)
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Command is one editing action.
type Command interface {
	apply(State) State
}

// Apply returns the state after cmd. The input state is never modified.
func Apply(s State, cmd Command) State {
	if cmd == nil {
		return s
	}
	return cmd.apply(s.normalize())
}

// replace swaps the selection for text and leaves the caret after it.
func replace(s State, text string) State {
	content := s.Content[:s.Start] + text + s.Content[s.End:]
	caret := s.Start + len(text)
	return State{Content: content, Start: caret, End: caret}
}

// wrap surrounds the selection with prefix and suffix and keeps the original
// text selected between them.
func wrap(s State, prefix, suffix string) State {
	sel := s.Content[s.Start:s.End]
	content := s.Content[:s.Start] + prefix + sel + suffix + s.Content[s.End:]
	start := s.Start + len(prefix)
	return State{Content: content, Start: start, End: start + len(sel)}
}

// InsertText replaces the selection with Text.
type InsertText struct{ Text string }

func (c InsertText) apply(s State) State { return replace(s, c.Text) }

// SetContent replaces the whole document and puts the caret at the end.
type SetContent struct{ Content string }

func (c SetContent) apply(State) State {
	return State{Content: c.Content, Start: len(c.Content), End: len(c.Content)}
}

// Bold wraps the selection in <strong>.
type Bold struct{}

func (Bold) apply(s State) State { return wrap(s, "<strong>", "</strong>") }

// Italic wraps the selection in <em>.
type Italic struct{}

func (Italic) apply(s State) State { return wrap(s, "<em>", "</em>") }

// Underline wraps the selection in <u>.
type Underline struct{}

func (Underline) apply(s State) State { return wrap(s, "<u>", "</u>") }

// Heading wraps the selection in <h1>..<h3>. Out-of-range levels are clamped.
type Heading struct{ Level int }

func (c Heading) apply(s State) State {
	level := min(max(c.Level, 1), 3)
	tag := "h" + strconv.Itoa(level)
	return wrap(s, "<"+tag+">", "</"+tag+">")
}

// BulletList turns each selected line into a list item.
type BulletList struct{}

func (BulletList) apply(s State) State {
	sel := s.Content[s.Start:s.End]
	if sel == "" {
		return wrap(s, "<ul><li>", "</li></ul>")
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, line := range strings.Split(sel, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(line)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return replace(s, b.String())
}

// Link wraps the selection in an anchor. The URL goes through
// sanitize.Text first; if nothing is left the command is a no-op.
type Link struct{ URL string }

func (c Link) apply(s State) State {
	url := sanitize.Text(c.URL)
	if url == "" {
		return s
	}
	return wrap(s, `<a href="`+html.EscapeString(url)+`">`, "</a>")
}

// InsertImage inserts an <img> snippet at the caret, replacing any selection.
type InsertImage struct{ HTML string }

func (c InsertImage) apply(s State) State {
	return replace(s, sanitize.HTML(c.HTML))
}

// ImageHTML builds the snippet inserted for an uploaded image.
func ImageHTML(src, alt string) string {
	return `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(alt) +
		`" style="max-width: 100%; height: auto; margin: 1rem 0;" />`
}
