package progress

import (
	"errors"
	"testing"

	"github.com/bookvoice/bookvoice/internal/book"
)

// testBook builds the canonical two-chapter, one-image book used across
// percentage tests: Ch1 is 100 chars, Ch2 is 300 chars, the image is 200
// bytes and doubles as the cover.
func testBook() *book.Book {
	img := book.Image{File: "cover.jpg", Content: make([]byte, 200)}
	return &book.Book{
		FileName:   "mybook",
		Title:      "My Book",
		CoverImage: img.Content,
		Chapters: []book.Chapter{
			{File: "ch1.xhtml", Name: "Ch1", Content: string(make([]byte, 100))},
			{File: "ch2.xhtml", Name: "Ch2", Content: string(make([]byte, 300))},
		},
		Images: []book.Image{img},
	}
}

func mustPercentage(t *testing.T, u Update, b *book.Book) int {
	t.Helper()
	pct, err := Percentage(u, b)
	if err != nil {
		t.Fatalf("Percentage(%v) error = %v", u, err)
	}
	return pct
}

func TestStageTableComplete(t *testing.T) {
	if err := validateStageTable(); err != nil {
		t.Fatalf("validateStageTable() = %v", err)
	}
	for s := Stage(0); s < stageCount; s++ {
		if s.String() == "" {
			t.Errorf("stage %d has empty name", int(s))
		}
		if s.Weight() <= 0 {
			t.Errorf("stage %v has weight %f", s, s.Weight())
		}
	}
}

func TestPercentageFirstEventIsZero(t *testing.T) {
	b := testBook()
	pct := mustPercentage(t, Update{Scope: "FFmpeg", Stage: StageInstalling, State: StateStarted}, b)
	if pct != 0 {
		t.Errorf("first Started event = %d%%, want 0", pct)
	}
}

func TestPercentageFinalDoneIsHundred(t *testing.T) {
	b := testBook()
	pct := mustPercentage(t, Update{Scope: "mybook.m4b", Stage: StageUpdatingM4bMetadata, State: StateDone}, b)
	if pct != 100 {
		t.Errorf("final Done event = %d%%, want 100", pct)
	}
}

// TestPercentageChapterWeighting checks the size-weighted per-chapter math:
// with Installing complete (5%) and Ch1 (100 of 400 chars) synthesized,
// progress is round(5 + 50*100/400) = 18.
func TestPercentageChapterWeighting(t *testing.T) {
	b := testBook()

	pct := mustPercentage(t, Update{Scope: "ch1.xhtml", Stage: StageConvertTextToWav, State: StateDone}, b)
	if pct != 18 {
		t.Errorf("after Ch1 synthesis = %d%%, want 18", pct)
	}

	// Ch2 started: Ch1 is positionally complete, Ch2 contributes nothing yet.
	pct = mustPercentage(t, Update{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateStarted}, b)
	if pct != 18 {
		t.Errorf("at Ch2 start = %d%%, want 18", pct)
	}

	// Ch2 done: whole synthesis stage complete, 5 + 50 = 55.
	pct = mustPercentage(t, Update{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateDone}, b)
	if pct != 55 {
		t.Errorf("after Ch2 synthesis = %d%%, want 55", pct)
	}
}

func TestPercentageFailedCreditsNothing(t *testing.T) {
	b := testBook()

	started := mustPercentage(t, Update{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateStarted}, b)
	failed := mustPercentage(t, Update{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateFailed}, b)
	if failed != started {
		t.Errorf("Failed = %d%%, want same as Started (%d%%)", failed, started)
	}

	// Whole stages likewise: Failed does not add the stage weight.
	failed = mustPercentage(t, Update{Scope: "mybook.m4b", Stage: StageMergingIntoM4b, State: StateFailed}, b)
	started = mustPercentage(t, Update{Scope: "mybook.m4b", Stage: StageMergingIntoM4b, State: StateStarted}, b)
	if failed != started {
		t.Errorf("merge Failed = %d%%, want same as Started (%d%%)", failed, started)
	}
}

func TestPercentageUnknownScope(t *testing.T) {
	b := testBook()
	_, err := Percentage(Update{Scope: "missing.xhtml", Stage: StageConvertTextToWav, State: StateDone}, b)
	if !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("error = %v, want ErrUnknownScope", err)
	}
}

func TestPercentageEmptyCollection(t *testing.T) {
	// A book with no images still has a SavingImage stage weight, but there
	// is no valid scope to report; the invalid stage/scope combination must
	// fail loudly rather than return a bogus fraction.
	b := testBook()
	b.Images = nil
	_, err := Percentage(Update{Scope: "cover.jpg", Stage: StageSavingImage, State: StateDone}, b)
	if !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("error = %v, want ErrUnknownScope", err)
	}
}

// TestPercentageMonotonicInStageOrder replays a full run whose updates walk
// the stage table in order and asserts the percentage never decreases and
// spans exactly 0 to 100. Monotonicity is only guaranteed for sequences that
// respect stage-table order; the estimator recomputes each value positionally
// and cannot see out-of-order history.
func TestPercentageMonotonicInStageOrder(t *testing.T) {
	b := testBook()

	seq := []Update{
		{Scope: "FFmpeg", Stage: StageInstalling, State: StateStarted},
		{Scope: "FFmpeg", Stage: StageInstalling, State: StateDone},
		{Scope: "ch1.xhtml", Stage: StageConvertTextToWav, State: StateStarted},
		{Scope: "ch1.xhtml", Stage: StageConvertTextToWav, State: StateDone},
		{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateStarted},
		{Scope: "ch2.xhtml", Stage: StageConvertTextToWav, State: StateDone},
		{Scope: "ch1.xhtml", Stage: StageConvertWavToAac, State: StateStarted},
		{Scope: "ch1.xhtml", Stage: StageConvertWavToAac, State: StateDone},
		{Scope: "ch2.xhtml", Stage: StageConvertWavToAac, State: StateStarted},
		{Scope: "ch2.xhtml", Stage: StageConvertWavToAac, State: StateDone},
		{Scope: "mybook.m4b", Stage: StageMergingIntoM4b, State: StateStarted},
		{Scope: "mybook.m4b", Stage: StageMergingIntoM4b, State: StateDone},
		{Scope: "cover.jpg", Stage: StageSavingImage, State: StateStarted},
		{Scope: "cover.jpg", Stage: StageSavingImage, State: StateDone},
		{Scope: "mybook.m4b", Stage: StageUpdatingM4bMetadata, State: StateStarted},
		{Scope: "mybook.m4b", Stage: StageUpdatingM4bMetadata, State: StateDone},
	}

	last := -1
	for i, u := range seq {
		pct := mustPercentage(t, u, b)
		if pct < last {
			t.Errorf("update %d (%v %v %v): %d%% < previous %d%%", i, u.Stage, u.Scope, u.State, pct, last)
		}
		if pct < 0 || pct > 100 {
			t.Errorf("update %d: %d%% out of range", i, pct)
		}
		last = pct
	}
	if last != 100 {
		t.Errorf("final percentage = %d%%, want 100", last)
	}
	if first := mustPercentage(t, seq[0], b); first != 0 {
		t.Errorf("first percentage = %d%%, want 0", first)
	}
}

// TestPercentageInterleavedChapters pins the values the converter's actual
// per-chapter interleaving produces. Encoding Ch1 reports against the
// wav->aac base (55%), with Ch1's share of that stage: 55 + 20*100/400 = 60.
func TestPercentageInterleavedChapters(t *testing.T) {
	b := testBook()

	synthCh1 := mustPercentage(t, Update{Scope: "ch1.xhtml", Stage: StageConvertTextToWav, State: StateDone}, b)
	if synthCh1 != 18 {
		t.Errorf("synth Ch1 = %d%%, want 18", synthCh1)
	}
	encCh1 := mustPercentage(t, Update{Scope: "ch1.xhtml", Stage: StageConvertWavToAac, State: StateDone}, b)
	if encCh1 != 60 {
		t.Errorf("encode Ch1 = %d%%, want 60", encCh1)
	}
}

func TestStateStrings(t *testing.T) {
	if StateStarted.String() != "started" || StateDone.String() != "done" || StateFailed.String() != "failed" {
		t.Errorf("unexpected state strings: %v %v %v", StateStarted, StateDone, StateFailed)
	}
	if StageConvertTextToWav.String() != "convert text to wav" {
		t.Errorf("unexpected stage string: %v", StageConvertTextToWav)
	}
}
