// Package htmltext converts embedded XHTML chapter content into the plain
// text fed to speech synthesis.
package htmltext

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are tags that terminate a line during extraction.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Hr:         true,
}

// skipAtoms are tags whose entire subtree is ignored.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

// Extract returns the readable text of an XHTML document. Block-level tags
// produce line breaks, script/style/head content is dropped, and runs of
// whitespace collapse to a single space within a line.
func Extract(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))

	var out strings.Builder
	var line strings.Builder
	skipDepth := 0

	flush := func() {
		text := strings.Join(strings.Fields(line.String()), " ")
		line.Reset()
		if text == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(text)
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			err := tokenizer.Err()
			if errors.Is(err, io.EOF) {
				flush()
				return out.String(), nil
			}
			return "", err

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			a := atom.Lookup(name)
			if skipAtoms[a] {
				skipDepth++
				continue
			}
			if blockAtoms[a] {
				flush()
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			a := atom.Lookup(name)
			if skipAtoms[a] && skipDepth > 0 {
				skipDepth--
				continue
			}
			if blockAtoms[a] {
				flush()
			}

		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockAtoms[atom.Lookup(name)] {
				flush()
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			// Raw text accumulates; flush collapses whitespace runs.
			line.Write(tokenizer.Text())
		}
	}
}
