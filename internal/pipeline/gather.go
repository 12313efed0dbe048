package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/pak13/internal/config"
)

// Sources holds the raw inputs of one build.
type Sources struct {
	JS   string // all JS files joined with "\n", in declared order
	HTML string
	CSS  string
}

// Gather reads every input concurrently. The JS files are joined in the order
// they are declared, whatever order the reads complete in.
func Gather(ctx context.Context, in config.Input) (Sources, error) {
	g, ctx := errgroup.WithContext(ctx)

	js := make([]string, len(in.JS))
	for i, path := range in.JS {
		g.Go(func() error {
			data, err := readInput(ctx, path)
			if err != nil {
				return err
			}
			js[i] = data
			return nil
		})
	}

	var src Sources
	g.Go(func() error {
		data, err := readInput(ctx, in.HTML)
		src.HTML = data
		return err
	})
	g.Go(func() error {
		data, err := readInput(ctx, in.CSS)
		src.CSS = data
		return err
	})

	if err := g.Wait(); err != nil {
		return Sources{}, err
	}

	src.JS = strings.Join(js, "\n")
	return src, nil
}

func readInput(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputRead, err)
	}
	return string(data), nil
}
