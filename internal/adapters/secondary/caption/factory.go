// Package caption turns emergency verse buffer content into slide lists.
//
// Two input shapes are recognized. Structured content carries a trailing
// Bible-reference header line and numbered verse body lines; it becomes
// per-verse slides. Anything else is treated as a free-form emergency
// announcement and grouped into two-line slides under the house caption.
package caption

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// DefaultMaxCols is the display-column budget per slide line.
const DefaultMaxCols = 60

var (
	// Header forms: "(<book> <chapter>장 ..." and "(<book> <chapter>:<verse>, ...".
	multiVerseHeader  = regexp.MustCompile(`^\((.+?)\s+(\d+)장`)
	singleVerseHeader = regexp.MustCompile(`^\((.+?)\s+(\d+):(\d+),`)

	// Body lines: "1 ○text" or "1 text".
	verseLine = regexp.MustCompile(`^(\d+)\s+○?(.*)$`)
)

// Factory implements the SlideComposer port.
type Factory struct {
	maxCols      int
	houseCaption string
}

// NewFactory creates a slide factory.
// houseCaption is the caption used for free-form announcement slides.
func NewFactory(maxCols int, houseCaption string) *Factory {
	if maxCols <= 0 {
		maxCols = DefaultMaxCols
	}

	return &Factory{
		maxCols:      maxCols,
		houseCaption: houseCaption,
	}
}

// Compose parses buffer content into emergency slides. Empty content
// yields an empty list; clearing the buffer is the controller's signal,
// not the factory's.
func (f *Factory) Compose(content string) entities.SlideList {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil
	}

	header := lines[len(lines)-1]
	body := lines[:len(lines)-1]

	if book, chapter, ok := parseHeader(header); ok {
		return f.verseSlides(book, chapter, body)
	}

	return f.announcementSlides(lines)
}

func parseHeader(line string) (book, chapter string, ok bool) {
	if m := multiVerseHeader.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	if m := singleVerseHeader.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// verseSlides builds one slide per wrapped chunk of each verse body line,
// captioned with the verse reference.
func (f *Factory) verseSlides(book, chapter string, body []string) entities.SlideList {
	var slides entities.SlideList

	for _, line := range body {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var caption, text string
		if m := verseLine.FindStringSubmatch(line); m != nil {
			caption = fmt.Sprintf("%s %s장 %s절", book, chapter, m[1])
			text = m[2]
		} else {
			caption = fmt.Sprintf("%s %s장", book, chapter)
			text = line
		}

		for _, chunk := range wrapText(strings.TrimSpace(text), f.maxCols) {
			slides = append(slides, entities.Slide{
				Style:    entities.StyleVerseInterrupt,
				Caption:  caption,
				Headline: chunk,
			})
		}
	}

	return slides
}

// announcementSlides groups free-form lines two per slide, or earlier when
// the accumulated character budget is met.
func (f *Factory) announcementSlides(lines []string) entities.SlideList {
	var slides entities.SlideList
	var buffer []string
	cols := 0

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		slides = append(slides, entities.Slide{
			Style:    entities.StyleLyricsInterrupt,
			Caption:  f.houseCaption,
			Headline: strings.Join(buffer, "\n"),
		})
		buffer = nil
		cols = 0
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		buffer = append(buffer, line)
		cols += displayWidth(line)

		if len(buffer) == 2 || cols >= f.maxCols {
			flush()
		}
	}
	flush()

	return slides
}
