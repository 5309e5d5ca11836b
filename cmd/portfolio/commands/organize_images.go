package commands

import (
	"context"

	"github.com/bogomolov-fly/portfolio/internal/relocate"
)

// OrganizeImagesCmd implements the 'organize-images' command.
type OrganizeImagesCmd struct {
	DryRun bool `name:"dry-run" help:"Report what would move without touching the images tree"`
}

func (o *OrganizeImagesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := root.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	return s.run(ctx, g, relocate.StageAssets, func(ctx context.Context, env relocate.Env) (batchResult, error) {
		r := relocate.NewAssetRelocator(env, s.layout(), relocate.AssetOptions{
			DryRun:     o.DryRun,
			Mode:       s.cfg.Content.ParseMode.Frontmatter(),
			BodyImages: s.cfg.Content.RewriteBodyImages,
		})
		res, err := r.Run(ctx)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}
