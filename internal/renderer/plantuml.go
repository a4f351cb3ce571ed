package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/docdiagram/internal/logfields"
)

// DefaultJar is used when neither PLANTUML_JAR nor configuration names a jar.
const DefaultJar = "plantuml.jar"

// PlantUML invokes the PlantUML jar through a Java runtime.
type PlantUML struct {
	Java    string
	Jar     string
	Charset string
	// Timeout bounds one invocation. Zero waits for the process indefinitely.
	Timeout time.Duration
	// Logger receives the process output. Nil uses slog.Default().
	Logger *slog.Logger

	// command builds the process; replaced in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewPlantUML returns a renderer with the given jar and defaults for the rest.
func NewPlantUML(jar string) *PlantUML {
	if jar == "" {
		jar = DefaultJar
	}
	return &PlantUML{Java: "java", Jar: jar, Charset: "UTF-8"}
}

// Args returns the command line (without the java executable) used to render
// sourcePath into format.
func (p *PlantUML) Args(sourcePath, format string) []string {
	charset := p.Charset
	if charset == "" {
		charset = "UTF-8"
	}
	return []string{
		"-Dfile.encoding=" + charset,
		"-jar", p.Jar,
		"-charset", charset,
		"-t" + format,
		sourcePath,
	}
}

// Render runs PlantUML and waits for it to exit. Process output is captured and
// logged, never forwarded to stdout, which carries the filtered document.
func (p *PlantUML) Render(ctx context.Context, sourcePath, format string) error {
	java := p.Java
	if java == "" {
		java = "java"
	}
	if _, err := exec.LookPath(java); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRendererNotFound, java, err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	build := p.command
	if build == nil {
		build = exec.CommandContext
	}
	cmd := build(ctx, java, p.Args(sourcePath, format)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Invoking PlantUML", logfields.Path(sourcePath), logfields.Format(format), slog.String("jar", p.Jar))
	err := cmd.Run()

	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug("plantuml stdout", "output", out)
	}
	errStr := strings.TrimSpace(stderr.String())
	if errStr != "" {
		logger.Warn("plantuml stderr", "error_output", errStr, logfields.Path(sourcePath))
	}

	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: timed out after %s", ErrRenderFailed, p.Timeout)
		}
		if errStr != "" {
			return fmt.Errorf("%w: %w: %s", ErrRenderFailed, err, errStr)
		}
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return nil
}
