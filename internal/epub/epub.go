// Package epub parses an EPUB archive into the book model consumed by the
// conversion pipeline: ordered plain-text chapters, embedded images, cover
// bytes, and publication metadata.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/bookvoice/bookvoice/internal/book"
	"github.com/bookvoice/bookvoice/internal/htmltext"
)

const containerPath = "META-INF/container.xml"

// ErrNoRootfile indicates a container.xml without a usable OPF reference.
var ErrNoRootfile = errors.New("epub: container.xml declares no OPF rootfile")

// Parser reads EPUB files into Book values.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse opens the EPUB at epubPath and builds an immutable Book. Malformed
// structure (missing container, OPF, or spine document) is an error; a
// missing manifest image is tolerated with a warning because some books
// declare resources they never shipped.
func (p *Parser) Parse(epubPath string) (*book.Book, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub %s: %w", epubPath, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[path.Clean(f.Name)] = f
	}

	opfPath, err := locateOPF(files)
	if err != nil {
		return nil, err
	}

	var pkg packageDoc
	if err := readXML(files, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("parse OPF %s: %w", opfPath, err)
	}

	opfDir := path.Dir(opfPath)
	itemsByID := make(map[string]manifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		itemsByID[item.ID] = item
	}

	titles := p.chapterTitles(files, pkg, itemsByID, opfDir)

	b := &book.Book{
		FileName:    strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath)),
		Title:       first(pkg.Metadata.Titles),
		Description: first(pkg.Metadata.Descriptions),
		Authors:     pkg.Metadata.Creators,
	}

	if err := p.readChapters(files, pkg, itemsByID, opfDir, titles, b); err != nil {
		return nil, err
	}
	p.readImages(files, pkg, opfDir, b)
	p.detectCover(pkg, itemsByID, b)

	if len(b.Chapters) == 0 {
		return nil, fmt.Errorf("epub %s: no readable chapters in spine", epubPath)
	}
	return b, nil
}

// locateOPF reads container.xml and returns the package document path.
func locateOPF(files map[string]*zip.File) (string, error) {
	var c containerXML
	if err := readXML(files, containerPath, &c); err != nil {
		return "", fmt.Errorf("parse %s: %w", containerPath, err)
	}
	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" {
			return path.Clean(rf.FullPath), nil
		}
	}
	return "", ErrNoRootfile
}

// readChapters walks the spine in order and extracts plain text from each
// XHTML document. A spine entry whose file is missing is a hard error: the
// book would otherwise be narrated with silently missing content.
func (p *Parser) readChapters(files map[string]*zip.File, pkg packageDoc, itemsByID map[string]manifestItem, opfDir string, titles map[string]string, b *book.Book) error {
	seq := 0
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := itemsByID[ref.IDRef]
		if !ok {
			return fmt.Errorf("spine references unknown manifest id %q", ref.IDRef)
		}
		if !strings.Contains(item.MediaType, "html") {
			continue
		}

		href := resolveHref(opfDir, item.Href)
		data, err := readFile(files, href)
		if err != nil {
			return fmt.Errorf("read spine document %s: %w", href, err)
		}
		text, err := htmltext.Extract(data)
		if err != nil {
			return fmt.Errorf("extract text from %s: %w", href, err)
		}
		if strings.TrimSpace(text) == "" {
			p.logger.Debug("skipping empty spine document", "href", href)
			continue
		}

		seq++
		name := titles[item.Href]
		if name == "" {
			name = fmt.Sprintf("Chapter %d", seq)
		}
		b.Chapters = append(b.Chapters, book.Chapter{
			File:    item.Href,
			Name:    name,
			Content: text,
		})
	}
	return nil
}

// readImages loads every manifest image. Missing image files are tolerated.
func (p *Parser) readImages(files map[string]*zip.File, pkg packageDoc, opfDir string, b *book.Book) {
	for _, item := range pkg.Manifest.Items {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		data, err := readFile(files, resolveHref(opfDir, item.Href))
		if err != nil {
			p.logger.Warn("manifest image missing from archive", "href", item.Href, "error", err)
			continue
		}
		b.Images = append(b.Images, book.Image{File: item.Href, Content: data})
	}
}

// detectCover sets CoverImage using, in priority order: the EPUB 3
// cover-image manifest property, the EPUB 2 meta name="cover" pointer, and
// finally an id/href substring heuristic.
func (p *Parser) detectCover(pkg packageDoc, itemsByID map[string]manifestItem, b *book.Book) {
	pick := func(href string) bool {
		for _, img := range b.Images {
			if img.File == href {
				b.CoverImage = img.Content
				return true
			}
		}
		return false
	}

	for _, item := range pkg.Manifest.Items {
		if strings.Contains(item.Properties, "cover-image") && pick(item.Href) {
			return
		}
	}
	for _, meta := range pkg.Metadata.Metas {
		if strings.EqualFold(meta.Name, "cover") {
			if item, ok := itemsByID[meta.Content]; ok && pick(item.Href) {
				return
			}
		}
	}
	for _, item := range pkg.Manifest.Items {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		lowered := strings.ToLower(item.ID + " " + item.Href)
		if strings.Contains(lowered, "cover") && pick(item.Href) {
			return
		}
	}
}

// chapterTitles builds an href→title map from the NCX document named by the
// spine, when present. EPUBs without navigation fall back to numbered names.
func (p *Parser) chapterTitles(files map[string]*zip.File, pkg packageDoc, itemsByID map[string]manifestItem, opfDir string) map[string]string {
	titles := make(map[string]string)

	ncxItem, ok := itemsByID[pkg.Spine.Toc]
	if !ok {
		for _, item := range pkg.Manifest.Items {
			if item.MediaType == "application/x-dtbncx+xml" {
				ncxItem, ok = item, true
				break
			}
		}
	}
	if !ok {
		return titles
	}

	var ncx ncxDoc
	if err := readXML(files, resolveHref(opfDir, ncxItem.Href), &ncx); err != nil {
		p.logger.Warn("unreadable NCX navigation", "href", ncxItem.Href, "error", err)
		return titles
	}

	bySrc := make(map[string]string)
	flattenNavPoints(ncx.NavMap, bySrc)

	// NCX srcs are relative to the NCX file; manifest hrefs are relative to
	// the OPF. Normalize both to archive paths, then key by manifest href.
	ncxDir := path.Dir(resolveHref(opfDir, ncxItem.Href))
	normalized := make(map[string]string, len(bySrc))
	for src, title := range bySrc {
		src = strings.SplitN(src, "#", 2)[0]
		normalized[resolveHref(ncxDir, src)] = title
	}
	for _, item := range pkg.Manifest.Items {
		if title, ok := normalized[resolveHref(opfDir, item.Href)]; ok {
			titles[item.Href] = title
		}
	}
	return titles
}

// resolveHref joins a possibly URL-escaped manifest href onto its base dir.
func resolveHref(baseDir, href string) string {
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if baseDir == "." || baseDir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(baseDir, href))
}

func readFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("file %q not in archive", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func readXML(files map[string]*zip.File, name string, v any) error {
	data, err := readFile(files, name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
