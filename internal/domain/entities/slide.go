package entities

import (
	"errors"
	"fmt"
	"strings"
)

// SlideStyle identifies the presentation template a slide is rendered with.
// The set is closed: anything outside it is rejected at the broadcast boundary.
type SlideStyle string

const (
	StyleCorner SlideStyle = "corner" // corner overlay caption
	StyleHymn   SlideStyle = "hymn"   // hymnal number
	StyleLyrics SlideStyle = "lyrics" // praise lyrics
	StyleRespo  SlideStyle = "respo"  // responsive reading
	StylePrayer SlideStyle = "prayer" // representative prayer
	StyleVerse  SlideStyle = "verse"  // scripture reading
	StyleAnthem SlideStyle = "anthem" // anthem title
	StyleGreet  SlideStyle = "greet"  // free-form message
	StyleIntro  SlideStyle = "intro"  // opening screen
	StyleBlank  SlideStyle = "blank"  // neutral empty screen
	StyleImage  SlideStyle = "image"  // image display (headline holds a media path)
	StyleVideo  SlideStyle = "video"  // video playback (headline holds a media path)

	// Emergency-interrupt variants written by the interruptor pipeline.
	// Their presence in a list marks it as emergency content and blocks
	// it from being backed up over a normal list.
	StyleVerseInterrupt  SlideStyle = "verse_interrupt"
	StyleLyricsInterrupt SlideStyle = "lyrics_interrupt"
)

// allStyles is the authoritative list of valid styles.
var allStyles = map[SlideStyle]struct{}{
	StyleCorner: {}, StyleHymn: {}, StyleLyrics: {}, StyleRespo: {},
	StylePrayer: {}, StyleVerse: {}, StyleAnthem: {}, StyleGreet: {},
	StyleIntro: {}, StyleBlank: {}, StyleImage: {}, StyleVideo: {},
	StyleVerseInterrupt: {}, StyleLyricsInterrupt: {},
}

// Valid reports whether the style is a member of the closed style set.
func (s SlideStyle) Valid() bool {
	_, ok := allStyles[s]
	return ok
}

// IsInterrupt reports whether the style marks emergency-interrupt content.
func (s SlideStyle) IsInterrupt() bool {
	return s == StyleVerseInterrupt || s == StyleLyricsInterrupt
}

// TemplateClass groups styles by how the overlay treats the headline field.
type TemplateClass int

const (
	// TemplateText renders the headline as display text.
	TemplateText TemplateClass = iota
	// TemplateMedia treats the headline as a relative media path.
	TemplateMedia
	// TemplateBlank renders a neutral empty screen.
	TemplateBlank
)

// String returns the string representation of TemplateClass.
func (t TemplateClass) String() string {
	switch t {
	case TemplateText:
		return "text"
	case TemplateMedia:
		return "media"
	case TemplateBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// TemplateClass maps a style to its template class. The switch is
// exhaustive over the closed style set; an unknown style is an error, not
// a passthrough, so new styles require a deliberate decision here.
func (s SlideStyle) TemplateClass() (TemplateClass, error) {
	switch s {
	case StyleCorner, StyleHymn, StyleLyrics, StyleRespo, StylePrayer,
		StyleVerse, StyleAnthem, StyleGreet, StyleIntro,
		StyleVerseInterrupt, StyleLyricsInterrupt:
		return TemplateText, nil
	case StyleImage, StyleVideo:
		return TemplateMedia, nil
	case StyleBlank:
		return TemplateBlank, nil
	default:
		return 0, fmt.Errorf("unknown slide style: %q", string(s))
	}
}

// Slide is the atomic display unit broadcast to overlay clients.
// It is a flat record; ordering within a SlideList is the only structure.
type Slide struct {
	// Style selects the presentation template.
	Style SlideStyle `json:"style"`

	// Caption is the short title or reference line.
	Caption string `json:"caption"`

	// Headline is the primary body text. For image/video styles it holds
	// a relative media path instead of text.
	Headline string `json:"headline"`

	// CaptionChoir optionally attributes an anthem to a choir.
	CaptionChoir string `json:"caption_choir,omitempty"`
}

// Validate ensures the slide carries a known style.
func (s *Slide) Validate() error {
	if !s.Style.Valid() {
		return fmt.Errorf("invalid slide style: %q", string(s.Style))
	}
	return nil
}

// Preview returns the first line of the headline truncated to max runes,
// for table rows and log lines.
func (s *Slide) Preview(max int) string {
	line := s.Headline
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	runes := []rune(line)
	if len(runes) > max {
		return string(runes[:max])
	}
	return line
}

// BlankSlide returns the neutral empty-screen slide.
func BlankSlide() Slide {
	return Slide{Style: StyleBlank, Caption: "", Headline: ""}
}

// SlideList is an ordered sequence of slides, persisted as the slide store.
type SlideList []Slide

// BlankList is the universal degraded default: a single blank slide.
func BlankList() SlideList {
	return SlideList{BlankSlide()}
}

// Validate checks every slide in the list.
func (l SlideList) Validate() error {
	if len(l) == 0 {
		return errors.New("slide list is empty")
	}
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

// ContainsInterrupt reports whether any slide carries an emergency-interrupt
// style. Such a list must never be written over a normal backup.
func (l SlideList) ContainsInterrupt() bool {
	for i := range l {
		if l[i].Style.IsInterrupt() {
			return true
		}
	}
	return false
}

// Clamp forces an index into [0, len-1]. For an empty list it returns 0.
func (l SlideList) Clamp(i int) int {
	if len(l) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= len(l) {
		return len(l) - 1
	}
	return i
}

// EnsureLeadingBlank prepends a blank slide when the list does not start
// with one, guaranteeing a neutral initial screen for live display.
// It reports whether the list was modified.
func (l SlideList) EnsureLeadingBlank() (SlideList, bool) {
	if len(l) == 0 || l[0].Style == StyleBlank {
		return l, false
	}
	out := make(SlideList, 0, len(l)+1)
	out = append(out, BlankSlide())
	out = append(out, l...)
	return out, true
}
