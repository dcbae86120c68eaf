package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Typed returns a Handler that decodes the job payload into T before
// calling fn. Keys map through `json` struct tags and scalar types are
// converted weakly, so a JSON number can fill an int field. Decode and
// validation failures are returned as handler errors and file the job as
// failed.
func Typed[T any](fn func(ctx context.Context, in T) error, opts ...TypedOption) Handler {
	o := DefaultTypedOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return HandlerFunc(func(ctx context.Context, j *Job) error {
		var in T
		if err := decodeInto(j.Payload, &in, o); err != nil {
			return fmt.Errorf("decode payload for job %s: %w", j.ID, err)
		}
		if o.Validate {
			if err := validate.Struct(in); err != nil {
				var invalid *validator.InvalidValidationError
				if !errors.As(err, &invalid) {
					return fmt.Errorf("validate payload for job %s: %w", j.ID, err)
				}
				// T is not a struct; nothing to validate.
			}
		}
		return fn(ctx, in)
	})
}

func decodeInto(p Payload, out any, o TypedOptions) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      o.ErrorUnused,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(p))
}
