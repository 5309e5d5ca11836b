package commands

import (
	"context"

	"github.com/bogomolov-fly/portfolio/internal/relocate"
)

// CleanupImagesCmd implements the 'cleanup-images' command.
type CleanupImagesCmd struct {
	DryRun bool `name:"dry-run" help:"Report what would be removed without removing anything"`
	All    bool `help:"Remove every image at the images root, not only those already copied into a category"`
}

func (c *CleanupImagesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := root.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	return s.run(ctx, g, relocate.StageCleanup, func(ctx context.Context, env relocate.Env) (batchResult, error) {
		res, err := relocate.NewImageCleanup(env, s.layout(), relocate.CleanupOptions{
			DryRun: c.DryRun,
			All:    c.All,
		}).Run(ctx)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}
