package ffmpeg

import (
	"strings"
	"testing"
)

func TestBuildChapterMarks(t *testing.T) {
	marks := BuildChapterMarks(
		[]int64{60000, 120000, 30000},
		[]string{"Opening", "Middle", "Closing"},
	)

	if len(marks) != 3 {
		t.Fatalf("got %d marks, want 3", len(marks))
	}

	want := []ChapterMark{
		{Title: "Opening", StartMS: 0, EndMS: 60000},
		{Title: "Middle", StartMS: 60001, EndMS: 180001},
		{Title: "Closing", StartMS: 180002, EndMS: 210002},
	}
	for i, m := range marks {
		if m != want[i] {
			t.Errorf("marks[%d] = %+v, want %+v", i, m, want[i])
		}
	}

	// Strictly increasing and non-overlapping with a 1 ms gap.
	for i := 1; i < len(marks); i++ {
		if marks[i].StartMS != marks[i-1].EndMS+1 {
			t.Errorf("gap between %d and %d is %d ms, want 1", i-1, i, marks[i].StartMS-marks[i-1].EndMS)
		}
		if marks[i].EndMS <= marks[i].StartMS {
			t.Errorf("marks[%d] is not increasing: %+v", i, marks[i])
		}
	}
}

func TestBuildChapterMarksDefaultTitles(t *testing.T) {
	marks := BuildChapterMarks([]int64{1000, 1000}, nil)
	if marks[0].Title != "Chapter 1" || marks[1].Title != "Chapter 2" {
		t.Errorf("default titles = %q, %q", marks[0].Title, marks[1].Title)
	}
}

func TestRenderChapterMetadata(t *testing.T) {
	meta := renderChapterMetadata([]ChapterMark{
		{Title: "Intro", StartMS: 0, EndMS: 5000},
		{Title: "A=B; #2", StartMS: 5001, EndMS: 9001},
	})

	if !strings.HasPrefix(meta, ";FFMETADATA1\n") {
		t.Error("missing FFMETADATA1 header")
	}
	if !strings.Contains(meta, "TIMEBASE=1/1000") {
		t.Error("missing millisecond timebase")
	}
	if !strings.Contains(meta, "START=0\nEND=5000\ntitle=Intro") {
		t.Errorf("first chapter block malformed:\n%s", meta)
	}
	if !strings.Contains(meta, `title=A\=B\; \#2`) {
		t.Errorf("special characters not escaped:\n%s", meta)
	}
	if got := strings.Count(meta, "[CHAPTER]"); got != 2 {
		t.Errorf("chapter block count = %d, want 2", got)
	}
}

func TestRenderConcatList(t *testing.T) {
	list := renderConcatList([]string{
		"/tmp/work/chapter_0001.aac",
		"/tmp/it's here/chapter_0002.aac",
	})

	lines := strings.Split(strings.TrimSpace(list), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "file '/tmp/work/chapter_0001.aac'" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != `file '/tmp/it'\''s here/chapter_0002.aac'` {
		t.Errorf("line 1 = %q", lines[1])
	}
}
