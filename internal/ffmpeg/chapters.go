package ffmpeg

import (
	"fmt"
	"strings"
)

// chapterGapMS is the silence-free gap between consecutive chapter markers.
// Players expect strictly increasing, non-overlapping ranges.
const chapterGapMS = 1

// ChapterMark is one chapter boundary in the merged audiobook, in
// milliseconds from the start of the container.
type ChapterMark struct {
	Title   string
	StartMS int64
	EndMS   int64
}

// BuildChapterMarks lays consecutive chapter durations end to end, leaving a
// one-millisecond gap between chapters so markers never overlap.
func BuildChapterMarks(durationsMS []int64, titles []string) []ChapterMark {
	marks := make([]ChapterMark, len(durationsMS))
	var cursor int64
	for i, d := range durationsMS {
		if i > 0 {
			cursor += chapterGapMS
		}
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		marks[i] = ChapterMark{Title: title, StartMS: cursor, EndMS: cursor + d}
		cursor += d
	}
	return marks
}

// renderChapterMetadata produces an ffmetadata document carrying the chapter
// markers, consumed by ffmpeg's -map_metadata during concatenation.
func renderChapterMetadata(marks []ChapterMark) string {
	var sb strings.Builder
	sb.WriteString(";FFMETADATA1\n")
	for _, m := range marks {
		sb.WriteString("\n[CHAPTER]\n")
		sb.WriteString("TIMEBASE=1/1000\n")
		fmt.Fprintf(&sb, "START=%d\n", m.StartMS)
		fmt.Fprintf(&sb, "END=%d\n", m.EndMS)
		fmt.Fprintf(&sb, "title=%s\n", escapeMetadataValue(m.Title))
	}
	return sb.String()
}

// renderConcatList produces a concat-demuxer list file. Paths are wrapped in
// single quotes with embedded quotes escaped the way the demuxer requires.
func renderConcatList(files []string) string {
	lines := make([]string, len(files))
	for i, f := range files {
		escaped := strings.ReplaceAll(f, "'", `'\''`)
		lines[i] = fmt.Sprintf("file '%s'", escaped)
	}
	return strings.Join(lines, "\n") + "\n"
}

// escapeMetadataValue escapes the characters the ffmetadata format treats
// specially: '=', ';', '#', '\' and newline.
func escapeMetadataValue(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"=", `\=`,
		";", `\;`,
		"#", `\#`,
		"\n", `\`+"\n",
	)
	return r.Replace(v)
}
