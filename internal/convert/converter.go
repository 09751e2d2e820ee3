// Package convert orchestrates the book-to-audiobook pipeline: per-chapter
// speech synthesis and AAC encoding, image extraction, chapter-aware
// concatenation into an M4B container, and metadata tagging. Progress for
// every unit of work flows through a single progress.Reporter.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/bookvoice/bookvoice/internal/book"
	"github.com/bookvoice/bookvoice/internal/ffmpeg"
	"github.com/bookvoice/bookvoice/internal/progress"
	"github.com/bookvoice/bookvoice/internal/providers"
)

// installScope labels the whole-pipeline Installing stage.
const installScope = "FFmpeg"

// AudioConverter is the external media-tool boundary the pipeline drives.
// *ffmpeg.Runner implements it; tests substitute a fake.
type AudioConverter interface {
	EnsureInstalled(ctx context.Context) error
	EncodeToAAC(ctx context.Context, in io.Reader, outFile string) error
	ConcatWithChapters(ctx context.Context, req ffmpeg.ConcatRequest) error
	EmbedTagsAndImages(ctx context.Context, file string, b *book.Book, imagesDir string) error
}

// Converter runs the conversion pipeline. One Converter may serve multiple
// runs; the external-tool readiness check happens once per instance.
type Converter struct {
	synth  providers.TTSProvider
	audio  AudioConverter
	logger *slog.Logger

	installOnce sync.Once
	installErr  error
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the Converter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// New creates a Converter from its two collaborators.
func New(synth providers.TTSProvider, audio AudioConverter, opts ...Option) *Converter {
	c := &Converter{
		synth:  synth,
		audio:  audio,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs the full pipeline: for each chapter in order, synthesize then
// encode; then extract images, concatenate with chapter markers, and embed
// tags and pictures into outputFile.
//
// Chapters are processed strictly sequentially, which is what keeps the
// positional percentage estimator honest. On the first failure the error
// propagates unmodified apart from wrapping; intermediates stay in wd for
// caller diagnostics. Cancellation is cooperative through ctx and is never
// reported as a Failed progress event.
func (c *Converter) Convert(ctx context.Context, voice string, b *book.Book, outputFile string, wd *Workdir, r progress.Reporter) error {
	if r == nil {
		r = progress.Discard
	}

	if err := c.ensureReady(ctx, r); err != nil {
		return fmt.Errorf("media tool unavailable: %w", err)
	}

	files := make([]string, len(b.Chapters))
	titles := make([]string, len(b.Chapters))
	for i, ch := range b.Chapters {
		titles[i] = ch.Name
		files[i] = wd.ChapterAudioPath(i)
		if err := c.processChapter(ctx, voice, ch, files[i], r); err != nil {
			return err
		}
	}

	for _, img := range b.Images {
		if err := c.saveImage(ctx, img, wd, r); err != nil {
			return err
		}
	}

	if err := c.merge(ctx, files, titles, outputFile, wd, r); err != nil {
		return err
	}

	if err := c.tag(ctx, b, outputFile, wd, r); err != nil {
		return err
	}

	c.logger.Info("conversion complete", "book", b.Title, "output", outputFile, "chapters", len(b.Chapters))
	return nil
}

// ensureReady runs the Installing stage at most once per Converter instance.
// Subsequent runs reuse the cached outcome without re-reporting the stage.
func (c *Converter) ensureReady(ctx context.Context, r progress.Reporter) error {
	c.installOnce.Do(func() {
		scope := progress.StartScope(r, installScope, progress.StageInstalling)
		c.installErr = c.audio.EnsureInstalled(ctx)
		scope.Close(c.installErr)
	})
	return c.installErr
}

// processChapter synthesizes one chapter's text and encodes the resulting
// stream to AAC. Synthesis and encoding report as separate stages, both
// scoped by the chapter's file name so the estimator can find the element.
func (c *Converter) processChapter(ctx context.Context, voice string, ch book.Chapter, outFile string, r progress.Reporter) error {
	synthScope := progress.StartScope(r, ch.FileName(), progress.StageConvertTextToWav)
	stream, err := c.synth.Synthesize(ctx, providers.SpeechRequest{
		Text:   ch.Content,
		Voice:  voice,
		Format: "wav",
	})
	synthScope.Close(err)
	if err != nil {
		return fmt.Errorf("synthesize chapter %q: %w", ch.Name, err)
	}
	defer stream.Close()

	encScope := progress.StartScope(r, ch.FileName(), progress.StageConvertWavToAac)
	err = c.audio.EncodeToAAC(ctx, stream, outFile)
	encScope.Close(err)
	if err != nil {
		return fmt.Errorf("encode chapter %q: %w", ch.Name, err)
	}
	return nil
}

// saveImage materializes one embedded image into the workdir.
func (c *Converter) saveImage(ctx context.Context, img book.Image, wd *Workdir, r progress.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scope := progress.StartScope(r, img.FileName(), progress.StageSavingImage)
	err := os.WriteFile(wd.ImagePath(img.FileName()), img.Content, 0o644)
	scope.Close(err)
	if err != nil {
		return fmt.Errorf("save image %q: %w", img.FileName(), err)
	}
	return nil
}

// merge concatenates the encoded chapters into the output container with
// chapter markers.
func (c *Converter) merge(ctx context.Context, files, titles []string, outputFile string, wd *Workdir, r progress.Reporter) error {
	scope := progress.StartScope(r, outputFile, progress.StageMergingIntoM4b)
	err := c.audio.ConcatWithChapters(ctx, ffmpeg.ConcatRequest{
		Files:    files,
		Titles:   titles,
		ListPath: wd.ConcatListPath(),
		MetaPath: wd.MetadataPath(),
		Output:   outputFile,
	})
	scope.Close(err)
	if err != nil {
		return fmt.Errorf("merge chapters into %s: %w", outputFile, err)
	}
	return nil
}

// tag embeds metadata tags and pictures into the finished container.
func (c *Converter) tag(ctx context.Context, b *book.Book, outputFile string, wd *Workdir, r progress.Reporter) error {
	scope := progress.StartScope(r, outputFile, progress.StageUpdatingM4bMetadata)
	err := c.audio.EmbedTagsAndImages(ctx, outputFile, b, wd.ImagesDir())
	scope.Close(err)
	if err != nil {
		return fmt.Errorf("embed metadata into %s: %w", outputFile, err)
	}
	return nil
}
