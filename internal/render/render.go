// Package render turns HTML into e-ink-friendly PNGs by driving a headless
// Chrome process, with optional ImageMagick quantization to cut the file
// under the firmware's 90KB limit.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/byos"
)

// ImageTooLargeError means the rendered PNG exceeds what the firmware will
// accept even after optimization.
type ImageTooLargeError struct {
	Size int
	Max  int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("rendered image is %d bytes, firmware limit is %d", e.Size, e.Max)
}

// RenderConfig controls the Chrome invocation.
type RenderConfig struct {
	// ChromePath is the browser binary; defaults to $CHROME_PATH or
	// "google-chrome".
	ChromePath string

	// TempDir holds the intermediate HTML and screenshot files.
	TempDir string

	// Optimize runs ImageMagick to reduce the color palette. Failure to
	// optimize degrades to the raw screenshot rather than erroring.
	Optimize bool

	// ColorDepth is the palette size used when optimizing.
	ColorDepth int

	Width  int
	Height int
}

// DefaultRenderConfig returns the standard 800x480, 16-color setup.
func DefaultRenderConfig() RenderConfig {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		chromePath = "google-chrome"
	}
	return RenderConfig{
		ChromePath: chromePath,
		TempDir:    filepath.Join(os.TempDir(), "papercast"),
		Optimize:   true,
		ColorDepth: 16,
		Width:      byos.DisplayWidth,
		Height:     byos.DisplayHeight,
	}
}

// WithChromePath returns a copy using the given browser binary.
func (c RenderConfig) WithChromePath(path string) RenderConfig {
	c.ChromePath = path
	return c
}

// WithTempDir returns a copy using the given scratch directory.
func (c RenderConfig) WithTempDir(dir string) RenderConfig {
	c.TempDir = dir
	return c
}

// WithoutOptimization returns a copy that skips ImageMagick.
func (c RenderConfig) WithoutOptimization() RenderConfig {
	c.Optimize = false
	return c
}

// RenderHTMLToPNG renders an HTML document to PNG bytes.
func RenderHTMLToPNG(ctx context.Context, html string, cfg RenderConfig) ([]byte, error) {
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	htmlPath := filepath.Join(cfg.TempDir, "render.html")
	screenshotPath := filepath.Join(cfg.TempDir, "screenshot.png")
	optimizedPath := filepath.Join(cfg.TempDir, "optimized.png")
	chromeDataDir := filepath.Join(cfg.TempDir, "chrome-data")

	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write HTML: %w", err)
	}
	if err := os.MkdirAll(chromeDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chrome data dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, cfg.ChromePath,
		"--headless=new",
		"--no-sandbox",
		"--disable-gpu",
		"--disable-dev-shm-usage",
		"--disable-software-rasterizer",
		"--no-first-run",
		"--disable-extensions",
		"--disable-background-networking",
		"--force-device-scale-factor=1",
		"--hide-scrollbars",
		"--default-background-color=ffffffff",
		fmt.Sprintf("--user-data-dir=%s", chromeDataDir),
		// Extra height keeps scrollbars out of the viewport; the crop
		// below trims it off.
		fmt.Sprintf("--window-size=%d,%d", cfg.Width, cfg.Height+100),
		fmt.Sprintf("--screenshot=%s", screenshotPath),
		fmt.Sprintf("file://%s", htmlPath),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Warn().Err(err).Str("output", string(out)).Msg("chrome exited abnormally")
	}

	if _, err := os.Stat(screenshotPath); err != nil {
		return nil, fmt.Errorf("chrome did not produce a screenshot: %w", err)
	}

	finalPath := screenshotPath
	if cfg.Optimize {
		convert := exec.CommandContext(ctx, "convert",
			screenshotPath,
			"-crop", fmt.Sprintf("%dx%d+0+0", cfg.Width, cfg.Height),
			"+repage",
			"-colors", fmt.Sprintf("%d", cfg.ColorDepth),
			"-depth", "4",
			optimizedPath,
		)
		if out, err := convert.CombinedOutput(); err != nil {
			log.Warn().Err(err).Str("output", string(out)).Msg("imagemagick optimization skipped")
		} else if _, err := os.Stat(optimizedPath); err == nil {
			finalPath = optimizedPath
		}
	}

	data, err := os.ReadFile(finalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	log.Info().Int("bytes", len(data)).Msg("rendered screen image")

	if len(data) > byos.MaxImageSize {
		return nil, &ImageTooLargeError{Size: len(data), Max: byos.MaxImageSize}
	}
	return data, nil
}

// TimestampedFilename returns a unique PNG filename. The firmware detects
// new content by filename comparison, so every render gets a fresh name.
func TimestampedFilename() string {
	return fmt.Sprintf("%d.png", time.Now().Unix())
}
