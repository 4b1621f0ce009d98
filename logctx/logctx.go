// Package logctx carries structured logging attributes on a
// [context.Context], so a deeply nested call (e.g. the signature
// selector, several frames below the package reader) can attach fields
// that end up on the log record the top-level caller eventually emits.
//
// Adapted from claircore's toolkit/log: the same context-carried-[slog.Value]
// pattern, trimmed to the attribute propagation this package actually
// uses (no per-context level override).
package logctx

import (
	"context"
	"log/slog"
	"slices"
)

type ctxkey int

const attrsKey ctxkey = iota

// With returns a context with args appended as [slog.Attr] at the
// package's context key, in the same key/value or alternating-args shape
// [slog.Logger.Log] accepts.
func With(ctx context.Context, args ...any) context.Context {
	return WithAttr(ctx, argsToAttrSlice(args)...)
}

// WithAttr returns a context with attrs appended to any attributes
// already attached. A later key overrides an earlier one with the same
// name.
func WithAttr(ctx context.Context, attrs ...slog.Attr) context.Context {
	if v, ok := ctx.Value(attrsKey).(slog.Value); ok {
		attrs = append(v.Group(), attrs...)
	}
	seen := make(map[string]struct{}, len(attrs))
	del := func(a slog.Attr) bool {
		_, rm := seen[a.Key]
		seen[a.Key] = struct{}{}
		return rm || (a.Value.Kind() == slog.KindGroup && len(a.Value.Group()) == 0)
	}
	slices.Reverse(attrs)
	attrs = slices.DeleteFunc(attrs, del)
	slices.Reverse(attrs)
	return context.WithValue(ctx, attrsKey, slog.GroupValue(attrs...))
}

// WrapHandler wraps next with an interceptor that adds any attributes
// stashed in the context by [With] or [WithAttr] to every record.
func WrapHandler(next slog.Handler) slog.Handler {
	return handler{next: next}
}

var _ slog.Handler = handler{}

type handler struct {
	next slog.Handler
}

func (h handler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h handler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(attrsKey).(slog.Value); ok {
		r.AddAttrs(v.Group()...)
	}
	return h.next.Handle(ctx, r)
}

func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handler{next: h.next.WithAttrs(attrs)}
}

func (h handler) WithGroup(name string) slog.Handler {
	return handler{next: h.next.WithGroup(name)}
}

// The following is copied out of the [log/slog] package: it implements
// the same alternating key/value (or bare [slog.Attr]) argument parsing
// [slog.Logger.Log] uses, so [With]'s signature matches it exactly.

func argsToAttrSlice(args []any) []slog.Attr {
	var (
		attr  slog.Attr
		attrs []slog.Attr
	)
	for len(args) > 0 {
		attr, args = argsToAttr(args)
		attrs = append(attrs, attr)
	}
	return attrs
}

func argsToAttr(args []any) (slog.Attr, []any) {
	const badKey = `!BADKEY`
	switch x := args[0].(type) {
	case string:
		if len(args) == 1 {
			return slog.String(badKey, x), nil
		}
		return slog.Any(x, args[1]), args[2:]
	case slog.Attr:
		return x, args[1:]
	default:
		return slog.Any(badKey, x), args[1:]
	}
}
