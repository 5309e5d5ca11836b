package errors

import "maps"

// ErrorBuilder assembles a ClassifiedError.
//
//	errors.WrapError(err, errors.CategoryFileSystem, "failed to move image").
//		WithContext("from", src).
//		Retryable().
//		Build()
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with no cause.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return WrapError(nil, category, message)
}

// WrapError starts an error of category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		cause:    err,
		context:  make(ErrorContext),
	}}
}

// WithContext records a key-value pair, typically a path.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// Fatal marks the error as one that ends the command.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

// Retryable marks the failure as one a re-run may clear.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	b.err.retry = RetryImmediate
	return b
}

// UserAction marks the failure as needing operator action before a re-run.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.retry = RetryUserAction
	return b
}

// Build returns the assembled error.
func (b *ErrorBuilder) Build() *ClassifiedError {
	built := b.err
	built.context = maps.Clone(b.err.context)
	return &built
}

// ConfigError reports an unusable configuration.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError reports invalid command input or document values.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// FileSystemError reports a failed read, write or move.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Retryable()
}

// InternalError reports a bug.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
