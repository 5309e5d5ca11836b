package commands

import (
	"context"

	"github.com/bogomolov-fly/portfolio/internal/relocate"
)

// FixPathsCmd implements the 'fix-paths' command.
type FixPathsCmd struct {
	DryRun bool `name:"dry-run" help:"Report what would be rewritten without writing anything"`
}

func (f *FixPathsCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := root.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	return s.run(ctx, g, relocate.StageFix, func(ctx context.Context, env relocate.Env) (batchResult, error) {
		r := relocate.NewPathFixer(env, s.layout(), relocate.FixOptions{
			DryRun:      f.DryRun,
			Mode:        s.cfg.Content.ParseMode.Frontmatter(),
			RewriteBody: s.cfg.Content.RewriteBodyImages,
		})
		res, err := r.Run(ctx)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}
