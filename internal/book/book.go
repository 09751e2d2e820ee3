// Package book defines the parsed book model consumed by the conversion
// pipeline. A Book is produced once by the parser and treated as read-only
// from then on: chapter and image order drives both processing order and
// progress weighting, so the two must never diverge.
package book

import "bytes"

// coverMatchPrefixLen is how many leading bytes are compared when matching
// the detected cover bytes against the image collection.
const coverMatchPrefixLen = 1024

// Element is a named, sized unit of book content. Size is a byte/char count
// used as a work-cost proxy when estimating conversion progress.
type Element interface {
	FileName() string
	Size() int
}

// Chapter is one readable chapter in spine order.
type Chapter struct {
	File    string // file name, unique among chapters
	Name    string // display title
	Content string // plain text, already stripped of markup
}

// FileName returns the chapter's unique file name.
func (c Chapter) FileName() string { return c.File }

// Size returns the chapter text length.
func (c Chapter) Size() int { return len(c.Content) }

// Image is one embedded image.
type Image struct {
	File    string // file name, unique among images
	Content []byte
}

// FileName returns the image's unique file name.
func (i Image) FileName() string { return i.File }

// Size returns the image byte length.
func (i Image) Size() int { return len(i.Content) }

// Book is an immutable snapshot of a parsed book.
type Book struct {
	FileName    string // source file stem, used to derive output names
	Title       string
	Description string
	Authors     []string
	CoverImage  []byte // raw cover bytes, matched by prefix against Images
	Chapters    []Chapter
	Images      []Image
}

// ChapterElements returns the chapters as progress elements, in reading order.
func (b *Book) ChapterElements() []Element {
	elems := make([]Element, len(b.Chapters))
	for i, c := range b.Chapters {
		elems[i] = c
	}
	return elems
}

// ImageElements returns the images as progress elements, in document order.
func (b *Book) ImageElements() []Element {
	elems := make([]Element, len(b.Images))
	for i, img := range b.Images {
		elems[i] = img
	}
	return elems
}

// TotalTextLen returns the combined length of all chapter text.
func (b *Book) TotalTextLen() int {
	total := 0
	for _, c := range b.Chapters {
		total += len(c.Content)
	}
	return total
}

// CoverIndex returns the index into Images of the image whose content shares
// a leading-byte prefix with CoverImage, or -1 when no cover is set or no
// image matches.
func (b *Book) CoverIndex() int {
	if len(b.CoverImage) == 0 {
		return -1
	}
	n := len(b.CoverImage)
	if n > coverMatchPrefixLen {
		n = coverMatchPrefixLen
	}
	prefix := b.CoverImage[:n]
	for i, img := range b.Images {
		if len(img.Content) >= n && bytes.Equal(img.Content[:n], prefix) {
			return i
		}
	}
	return -1
}
