// Package ffmpeg drives the external ffmpeg/ffprobe binaries: per-chapter
// AAC encoding, chapter-aware concatenation into an M4B container, metadata
// and cover embedding, and duration probing.
package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/bookvoice/bookvoice/internal/book"
)

const defaultBitrate = "64k"

// Runner invokes ffmpeg and ffprobe. The zero paths resolve from PATH.
type Runner struct {
	ffmpegPath  string
	ffprobePath string
	bitrate     string
	logger      *slog.Logger
}

// Config holds Runner settings; zero values use sane defaults.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	Bitrate     string // AAC bitrate, e.g. "64k"
	Logger      *slog.Logger
}

// NewRunner creates a Runner with defaults filled in.
func NewRunner(cfg Config) *Runner {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.Bitrate == "" {
		cfg.Bitrate = defaultBitrate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		bitrate:     cfg.Bitrate,
		logger:      cfg.Logger,
	}
}

// EnsureInstalled verifies both binaries resolve and respond to -version.
// The version probe retries briefly to ride out a tool that is still being
// provisioned (e.g. a package manager finishing an install).
func (r *Runner) EnsureInstalled(ctx context.Context) error {
	for _, bin := range []string{r.ffmpegPath, r.ffprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH: %w", bin, err)
		}
	}

	return retry.Do(
		func() error {
			cmd := exec.CommandContext(ctx, r.ffmpegPath, "-version")
			if out, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("ffmpeg -version failed: %w\noutput: %s", err, out)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
}

// EncodeToAAC encodes an audio stream from in into an AAC file at outFile.
func (r *Runner) EncodeToAAC(ctx context.Context, in io.Reader, outFile string) error {
	cmd := exec.CommandContext(ctx, r.ffmpegPath,
		"-i", "pipe:0",
		"-c:a", "aac",
		"-b:a", r.bitrate,
		"-y",
		outFile,
	)
	cmd.Stdin = in

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg encode to %s failed: %w\noutput: %s", filepath.Base(outFile), err, out)
	}
	return nil
}

// ProbeDurationMS returns the audio duration of path in milliseconds.
func (r *Runner) ProbeDurationMS(ctx context.Context, path string) (int64, error) {
	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("ffprobe %s failed: %w", filepath.Base(path), err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return int64(seconds * 1000), nil
}

// ConcatRequest describes one chapter-aware concatenation.
type ConcatRequest struct {
	Files    []string // encoded chapter files, reading order
	Titles   []string // chapter display titles, same order
	ListPath string   // where to write the transient concat list
	MetaPath string   // where to write the transient ffmetadata chapters file
	Output   string   // final container path
}

// ConcatWithChapters probes each input's duration, lays chapter markers end
// to end with a 1 ms gap, and concatenates everything into req.Output with
// the markers embedded. The list and metadata files are left in place for
// caller cleanup, matching the rest of the pipeline's no-rollback policy.
func (r *Runner) ConcatWithChapters(ctx context.Context, req ConcatRequest) error {
	if len(req.Files) == 0 {
		return fmt.Errorf("no input files to concatenate")
	}

	durations := make([]int64, len(req.Files))
	for i, f := range req.Files {
		d, err := r.ProbeDurationMS(ctx, f)
		if err != nil {
			return fmt.Errorf("probe chapter duration: %w", err)
		}
		durations[i] = d
	}
	marks := BuildChapterMarks(durations, req.Titles)

	if err := os.WriteFile(req.ListPath, []byte(renderConcatList(req.Files)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	if err := os.WriteFile(req.MetaPath, []byte(renderChapterMetadata(marks)), 0o644); err != nil {
		return fmt.Errorf("write chapter metadata: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.ffmpegPath,
		"-f", "concat",
		"-safe", "0",
		"-i", req.ListPath,
		"-i", req.MetaPath,
		"-map_metadata", "1",
		"-map_chapters", "1",
		"-c", "copy",
		"-f", "mp4",
		"-y",
		req.Output,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg concat failed: %w\noutput: %s", err, out)
	}
	r.logger.Debug("concatenated chapters", "count", len(req.Files), "output", req.Output)
	return nil
}

// EmbedTagsAndImages rewrites file in place with the book's metadata tags and
// embedded pictures. The cover image (matched by content prefix) goes first
// and is flagged as the container's attached picture.
func (r *Runner) EmbedTagsAndImages(ctx context.Context, file string, b *book.Book, imagesDir string) error {
	imagePaths := orderedImagePaths(b, imagesDir)

	args := []string{"-i", file}
	for _, p := range imagePaths {
		args = append(args, "-i", p)
	}
	args = append(args, "-map", "0:a", "-map_metadata", "0", "-map_chapters", "0")
	for i := range imagePaths {
		args = append(args, "-map", fmt.Sprintf("%d:v", i+1))
	}
	args = append(args, "-c", "copy")
	if len(imagePaths) > 0 && b.CoverIndex() >= 0 {
		args = append(args, "-disposition:v:0", "attached_pic")
	}
	args = append(args,
		"-metadata", "title="+b.Title,
		"-metadata", "album="+b.Title,
		"-metadata", "artist="+strings.Join(b.Authors, ", "),
		"-metadata", "comment="+b.Description,
	)

	tmp := file + ".tagged.m4b"
	args = append(args, "-f", "mp4", "-y", tmp)

	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg tag failed: %w\noutput: %s", err, out)
	}
	if err := os.Rename(tmp, file); err != nil {
		return fmt.Errorf("replace tagged output: %w", err)
	}
	return nil
}

// orderedImagePaths returns the on-disk image paths to embed, cover first
// when one was identified.
func orderedImagePaths(b *book.Book, imagesDir string) []string {
	paths := make([]string, 0, len(b.Images))
	if ci := b.CoverIndex(); ci >= 0 {
		paths = append(paths, filepath.Join(imagesDir, filepath.Base(b.Images[ci].File)))
		for i, img := range b.Images {
			if i != ci {
				paths = append(paths, filepath.Join(imagesDir, filepath.Base(img.File)))
			}
		}
		return paths
	}
	for _, img := range b.Images {
		paths = append(paths, filepath.Join(imagesDir, filepath.Base(img.File)))
	}
	return paths
}
