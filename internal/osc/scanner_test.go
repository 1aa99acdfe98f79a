package osc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	bells  int
	titles []string
}

func (r *recorder) Bell()              { r.bells++ }
func (r *recorder) Title(title string) { r.titles = append(r.titles, title) }

func scan(chunks ...string) *recorder {
	r := &recorder{}
	s := NewScanner(r)
	for _, c := range chunks {
		n, err := s.Write([]byte(c))
		if err != nil || n != len(c) {
			panic("short write")
		}
	}
	return r
}

func TestScanner_Titles(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{"osc 0 with BEL", []string{"\x1b]0;user@host: ~\x07"}, []string{"user@host: ~"}},
		{"osc 2 with ST", []string{"\x1b]2;vim main.go\x1b\\"}, []string{"vim main.go"}},
		{"osc 1 icon only", []string{"\x1b]1;icon\x07"}, nil},
		{"other osc", []string{"\x1b]7;file:///tmp\x07"}, nil},
		{"empty title", []string{"\x1b]2;\x07"}, []string{""}},
		{"split across writes", []string{"ab\x1b", "]2;sp", "lit\x1b", "\\cd"}, []string{"split"}},
		{"surrounded by text", []string{"$ ls\r\n\x1b]0;one\x07out\x1b]0;two\x07"}, []string{"one", "two"}},
		{"no separator", []string{"\x1b]2\x07"}, nil},
		{"non numeric", []string{"\x1b]x;y\x07"}, nil},
		{"cancelled", []string{"\x1b]2;abc\x18\x1b]2;ok\x07"}, []string{"ok"}},
		{"utf8 title", []string{"\x1b]2;héllo ✝\x07"}, []string{"héllo ✝"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scan(tt.chunks...)
			assert.Equal(t, tt.want, r.titles)
		})
	}
}

func TestScanner_BellInsideOSCTerminatesIt(t *testing.T) {
	r := scan("\x1b]2;title\x07")
	assert.Equal(t, 0, r.bells)
	assert.Equal(t, []string{"title"}, r.titles)
}

func TestScanner_Bells(t *testing.T) {
	r := scan("a\x07b", "\x07", "\x1b[31m\x07")
	assert.Equal(t, 3, r.bells)
}

func TestScanner_IgnoresStrings(t *testing.T) {
	// BEL terminates the DCS and must not ring
	r := scan("\x1bPq#0;2;0;0;0\x07", "\x1b_apc\x1b\\", "\x07")
	assert.Equal(t, 1, r.bells)
	assert.Empty(t, r.titles)
}

func TestScanner_UnterminatedOSCFollowedByEscape(t *testing.T) {
	r := scan("\x1b]2;lost\x1b[0m\x1b]2;kept\x07")
	assert.Equal(t, []string{"kept"}, r.titles)
}

func TestScanner_TitleIsCapped(t *testing.T) {
	long := strings.Repeat("x", MaxTitleLen*2)
	r := scan("\x1b]2;" + long + "\x07")
	if assert.Len(t, r.titles, 1) {
		assert.Len(t, r.titles[0], MaxTitleLen)
	}
}

func TestScanner_TitleCapKeepsRunesWhole(t *testing.T) {
	title := strings.Repeat("x", MaxTitleLen-1) + "é"
	r := scan("\x1b]2;" + title + "\x07")
	if assert.Len(t, r.titles, 1) {
		got := r.titles[0]
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("x", MaxTitleLen-1), got)
	}
}

func TestScanner_InvalidUTF8Replaced(t *testing.T) {
	r := scan("\x1b]0;bad\xff\xfetitle\x07")
	if assert.Len(t, r.titles, 1) {
		assert.True(t, utf8.ValidString(r.titles[0]))
		assert.Equal(t, "bad\uFFFDtitle", r.titles[0])
	}
}

func TestHandlerFuncs(t *testing.T) {
	var bells int
	var title string
	s := NewScanner(HandlerFuncs{
		OnBell:  func() { bells++ },
		OnTitle: func(t string) { title = t },
	})
	s.Write([]byte("\x07\x1b]0;t\x07"))
	assert.Equal(t, 1, bells)
	assert.Equal(t, "t", title)

	// nil callbacks are fine
	NewScanner(HandlerFuncs{}).Write([]byte("\x07\x1b]0;t\x07"))
}
