package git

import (
	stderrors "errors"

	gogit "github.com/go-git/go-git/v5"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// classify translates go-git errors into ClassifiedErrors.
func classify(err error, op, p string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	category := errors.CategoryGit
	switch {
	case stderrors.Is(err, gogit.ErrDestinationExists):
		category = errors.CategoryAlreadyExists
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		category = errors.CategoryConfig
	}

	return errors.WrapError(err, category, "git "+op+" failed").
		WithContext("op", op).
		WithContext("path", p).
		UserAction().
		Build()
}
