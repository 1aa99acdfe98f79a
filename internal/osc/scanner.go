// Package osc watches a terminal output stream for the few control
// sequences the front end reacts to: BEL and the window-title OSCs.
//
// The stream is observed, never modified; the terminal engine still
// receives every byte.
package osc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxTitleLen caps the bytes kept from a single title sequence
const MaxTitleLen = 4096

// maxOSCLen leaves room for the "Ps;" prefix
const maxOSCLen = MaxTitleLen + 8

// Handler receives the events found in the stream
type Handler interface {
	Bell()
	Title(title string)
}

// HandlerFuncs adapts plain functions to Handler; nil fields are ignored
type HandlerFuncs struct {
	OnBell  func()
	OnTitle func(string)
}

func (h HandlerFuncs) Bell() {
	if h.OnBell != nil {
		h.OnBell()
	}
}

func (h HandlerFuncs) Title(title string) {
	if h.OnTitle != nil {
		h.OnTitle(title)
	}
}

type state int

const (
	stateGround state = iota
	stateEscape        // after ESC
	stateOSC           // inside ESC ] ... collecting
	stateOSCEscape     // ESC seen inside OSC, expecting '\'
	stateString        // inside DCS/SOS/PM/APC, ignored until ST
	stateStringEscape  // ESC seen inside an ignored string
)

// Scanner is an incremental scanner; sequences may span Write calls.
// It is not safe for concurrent use.
type Scanner struct {
	h     Handler
	state state
	buf   []byte
}

// NewScanner returns a scanner reporting to h
func NewScanner(h Handler) *Scanner {
	return &Scanner{h: h}
}

// Write scans p. It always consumes all of p so a Scanner can sit in an
// io.MultiWriter next to the terminal.
func (s *Scanner) Write(p []byte) (int, error) {
	for _, b := range p {
		s.step(b)
	}
	return len(p), nil
}

func (s *Scanner) step(b byte) {
	switch s.state {
	case stateGround:
		switch b {
		case 0x07:
			s.h.Bell()
		case 0x1b:
			s.state = stateEscape
		}

	case stateEscape:
		switch b {
		case ']':
			s.beginOSC()
		case 'P', 'X', '^', '_':
			s.state = stateString
		case 0x1b:
			// ESC ESC: stay
		default:
			s.state = stateGround
			if b == 0x07 {
				s.h.Bell()
			}
		}

	case stateOSC:
		switch b {
		case 0x07:
			s.finishOSC()
		case 0x1b:
			s.state = stateOSCEscape
		case 0x18, 0x1a: // CAN, SUB abort
			s.reset()
		default:
			if len(s.buf) < maxOSCLen {
				s.buf = append(s.buf, b)
			}
		}

	case stateOSCEscape:
		if b == '\\' {
			s.finishOSC()
			return
		}
		// Unterminated OSC followed by a new escape sequence
		s.reset()
		s.state = stateEscape
		s.step(b)

	case stateString:
		switch b {
		case 0x1b:
			s.state = stateStringEscape
		case 0x07, 0x18, 0x1a:
			s.state = stateGround
		}

	case stateStringEscape:
		if b == '\\' {
			s.state = stateGround
			return
		}
		s.state = stateString
	}
}

func (s *Scanner) beginOSC() {
	s.state = stateOSC
	s.buf = s.buf[:0]
}

func (s *Scanner) reset() {
	s.state = stateGround
	s.buf = s.buf[:0]
}

// finishOSC dispatches "Ps ; Pt" for Ps 0 (icon + title) and 2 (title)
func (s *Scanner) finishOSC() {
	data := s.buf
	s.reset()

	sep := -1
	for i, b := range data {
		if b == ';' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return
	}
	ps, err := strconv.Atoi(string(data[:sep]))
	if err != nil {
		return
	}
	switch ps {
	case 0, 2:
		s.h.Title(cleanTitle(data[sep+1:]))
	}
}

// cleanTitle caps title at MaxTitleLen on a rune boundary and replaces
// invalid UTF-8, which GTK refuses as a window title
func cleanTitle(title []byte) string {
	if len(title) > MaxTitleLen {
		cut := MaxTitleLen
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	return strings.ToValidUTF8(string(title), "\uFFFD")
}
