package logging

import (
	"context"

	"github.com/samber/oops"
)

// LogError logs err at error level. oops errors are flattened into their
// code and context attributes; anything else is logged as a plain string.
func LogError(ctx context.Context, l Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != nil && code != "" {
			attrs = append(attrs, "code", code)
		}
		if c := oopsErr.Context(); len(c) > 0 {
			attrs = append(attrs, "context", c)
		}
		l.Error(ctx, msg, attrs...)
		return
	}
	l.Error(ctx, msg, "error", err)
}
