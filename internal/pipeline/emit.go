package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/pak13/internal/config"
)

// Artifacts are the four build outputs. They are not modified after Emit.
type Artifacts struct {
	Archive   []byte
	HTML      string
	DebugHTML string
	DebugJS   string
}

// Emit writes all artifacts concurrently, creating parent directories.
// On failure, files that were already written are not removed.
func Emit(ctx context.Context, out config.Output, a Artifacts) error {
	g, ctx := errgroup.WithContext(ctx)

	files := []struct {
		path string
		data []byte
	}{
		{out.Zip, a.Archive},
		{out.HTML, []byte(a.HTML)},
		{out.DebugHTML, []byte(a.DebugHTML)},
		{out.DebugJS, []byte(a.DebugJS)},
	}

	for _, f := range files {
		g.Go(func() error {
			return writeOutput(ctx, f.path, f.data)
		})
	}

	return g.Wait()
}

func writeOutput(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
