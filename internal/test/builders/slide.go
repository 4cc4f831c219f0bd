package builders

import (
	"fmt"

	"github.com/worship-tools/slidecast/internal/domain/entities"
)

// SlideBuilder helps build Slide entities for testing
type SlideBuilder struct {
	slide entities.Slide
}

// NewSlideBuilder creates a new slide builder with sensible defaults
func NewSlideBuilder() *SlideBuilder {
	return &SlideBuilder{
		slide: entities.Slide{
			Style:    entities.StyleLyrics,
			Caption:  "Test Caption",
			Headline: "Test Headline",
		},
	}
}

// WithStyle sets the slide style
func (b *SlideBuilder) WithStyle(style entities.SlideStyle) *SlideBuilder {
	b.slide.Style = style
	return b
}

// WithCaption sets the slide caption
func (b *SlideBuilder) WithCaption(caption string) *SlideBuilder {
	b.slide.Caption = caption
	return b
}

// WithHeadline sets the slide headline
func (b *SlideBuilder) WithHeadline(headline string) *SlideBuilder {
	b.slide.Headline = headline
	return b
}

// WithChoirCaption sets the choir caption variant
func (b *SlideBuilder) WithChoirCaption(caption string) *SlideBuilder {
	b.slide.CaptionChoir = caption
	return b
}

// Build returns the constructed slide
func (b *SlideBuilder) Build() entities.Slide {
	return b.slide
}

// ListBuilder helps build SlideList entities for testing
type ListBuilder struct {
	slides entities.SlideList
}

// NewListBuilder creates an empty slide list builder
func NewListBuilder() *ListBuilder {
	return &ListBuilder{}
}

// WithSlide appends a slide to the list
func (b *ListBuilder) WithSlide(slide entities.Slide) *ListBuilder {
	b.slides = append(b.slides, slide)
	return b
}

// WithLyricsCount appends the specified number of numbered lyrics slides
func (b *ListBuilder) WithLyricsCount(count int) *ListBuilder {
	for i := 0; i < count; i++ {
		b.slides = append(b.slides, NewSlideBuilder().
			WithCaption(fmt.Sprintf("Verse %d", i+1)).
			Build())
	}
	return b
}

// WithLeadingBlank prepends a blank slide
func (b *ListBuilder) WithLeadingBlank() *ListBuilder {
	b.slides = append(entities.SlideList{entities.BlankSlide()}, b.slides...)
	return b
}

// WithInterrupt appends an emergency caption slide
func (b *ListBuilder) WithInterrupt(caption string) *ListBuilder {
	b.slides = append(b.slides, NewSlideBuilder().
		WithStyle(entities.StyleVerseInterrupt).
		WithCaption(caption).
		Build())
	return b
}

// Build returns the constructed list
func (b *ListBuilder) Build() entities.SlideList {
	return b.slides
}
