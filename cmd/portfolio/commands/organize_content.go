package commands

import (
	"context"

	"github.com/bogomolov-fly/portfolio/internal/relocate"
)

// OrganizeContentCmd implements the 'organize-content' command.
type OrganizeContentCmd struct {
	DryRun bool `name:"dry-run" help:"Report what would change without writing anything"`
}

func (o *OrganizeContentCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := root.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	return s.run(ctx, g, relocate.StageContent, func(ctx context.Context, env relocate.Env) (batchResult, error) {
		r := relocate.NewContentRelocator(env, s.layout(), relocate.ContentOptions{
			DryRun:      o.DryRun,
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
