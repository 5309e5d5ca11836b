package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "failed to move image").
		WithContext("from", "public/images/portfolio/k1.jpg").
		WithContext("to", "public/images/portfolio/kitchens/k1.jpg").
		Retryable().
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, "failed to move image", err.Message())
	assert.True(t, err.Retryable())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorContext{
		"from": "public/images/portfolio/k1.jpg",
		"to":   "public/images/portfolio/kitchens/k1.jpg",
	}, err.Context())
	assert.Equal(t, "[filesystem:error] failed to move image: permission denied", err.Error())
}

func TestBuilder_BuildSnapshotsContext(t *testing.T) {
	b := NewError(CategoryNotFound, "image not found").WithContext("image", "k1.jpg")
	first := b.Build()
	second := b.WithContext("document", "kitchen-1.md").Build()

	assert.Len(t, first.Context(), 1)
	assert.Len(t, second.Context(), 2)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *ClassifiedError
		category  ErrorCategory
		severity  ErrorSeverity
		retryable bool
	}{
		{"config", ConfigError("content root is empty").Build(), CategoryConfig, SeverityFatal, false},
		{"validation", ValidationError("category is not a directory name").Build(), CategoryValidation, SeverityFatal, false},
		{"filesystem", FileSystemError("write failed").Build(), CategoryFileSystem, SeverityError, true},
		{"internal", InternalError("panic while loading document").Build(), CategoryInternal, SeverityFatal, false},
		{"user action", NewError(CategoryGit, "index locked").UserAction().Build(), CategoryGit, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.severity, tt.err.Severity())
			assert.Equal(t, tt.retryable, tt.err.Retryable())
		})
	}
}

func TestHasCategory_ThroughWrapping(t *testing.T) {
	occupied := NewError(CategoryAlreadyExists, "destination occupied").
		WithContext("path", "src/data/portfolio/kitchens/a.md").
		Build()
	wrapped := fmt.Errorf("relocate kitchen-1.md: %w", occupied)

	assert.True(t, HasCategory(wrapped, CategoryAlreadyExists))
	assert.False(t, HasCategory(wrapped, CategoryFileSystem))
	assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, occupied, got)

	_, ok = AsClassified(errors.New("plain"))
	assert.False(t, ok)
}

func TestIs_MatchesCategoryAndMessage(t *testing.T) {
	a := NewError(CategoryJournal, "journal is disabled").WithContext("path", "a.db").Build()
	b := NewError(CategoryJournal, "journal is disabled").Build()
	c := NewError(CategoryConfig, "journal is disabled").Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}
