package job

// TypedOptions configures how Typed decodes payloads.
type TypedOptions struct {
	// Validate runs go-playground/validator struct validation after
	// decoding. Defaults to true.
	Validate bool

	// ErrorUnused rejects payloads carrying keys the target struct does
	// not declare.
	ErrorUnused bool
}

// TypedOption mutates TypedOptions.
type TypedOption func(*TypedOptions)

// DefaultTypedOptions returns the options Typed uses when none are given.
func DefaultTypedOptions() TypedOptions {
	return TypedOptions{Validate: true}
}

// WithoutValidation skips struct validation.
func WithoutValidation() TypedOption {
	return func(o *TypedOptions) { o.Validate = false }
}

// WithStrictKeys rejects payload keys the target type does not declare.
func WithStrictKeys() TypedOption {
	return func(o *TypedOptions) { o.ErrorUnused = true }
}
