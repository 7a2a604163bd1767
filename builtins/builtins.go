// Package builtins provides reference function handlers (union, empty,
// guid) plus a handful of demonstration handlers exercised by the engine's
// own test scenarios (concat, toUpper, first, createArray, body). None of these
// are registered automatically by the engine — the catalogue of built-in
// functions is a deployment parameter, not a fixed list — but they are
// concrete, tested implementations a caller can wire with
// Engine.RegisterFunction.
package builtins

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Tangerg/exprflow/errs"
	"github.com/Tangerg/exprflow/value"
)

// Union merges like-kind inputs. Array inputs are merged preserving
// first-seen order and deduplicated by structural equality
// (value.Value.Equals, not Go identity); Object inputs are concatenated
// with later keys overwriting earlier ones.
func Union(_ context.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, errs.Wrap(errs.ArgumentError, "union requires at least one argument")
	}
	switch args[0].Kind() {
	case value.KindArray:
		return unionArrays(args)
	case value.KindObject:
		return unionObjects(args)
	default:
		return value.Value{}, errs.Wrap(errs.TypeMismatch, "union does not support %s", args[0].Kind())
	}
}

func unionArrays(args []value.Value) (value.Value, error) {
	var all []value.Value
	for _, a := range args {
		if a.Kind() != value.KindArray {
			return value.Value{}, errs.Wrap(errs.TypeMismatch, "union arguments must share one kind, got %s", a.Kind())
		}
		elems, _ := a.AsArray()
		all = append(all, elems...)
	}
	// Dedup on structural equality (Value.Equals) only: values whose
	// Stringify text collides (e.g. Int(1) and Str("1")) are kept apart.
	result := make([]value.Value, 0, len(all))
	for _, candidate := range all {
		if !lo.ContainsBy(result, candidate.Equals) {
			result = append(result, candidate)
		}
	}
	return value.NewArray(result...), nil
}

func unionObjects(args []value.Value) (value.Value, error) {
	merged := value.NewObjectRaw()
	obj, _ := merged.AsObject()
	for _, a := range args {
		if a.Kind() != value.KindObject {
			return value.Value{}, errs.Wrap(errs.TypeMismatch, "union arguments must share one kind, got %s", a.Kind())
		}
		src, _ := a.AsObject()
		_ = src.ForEach(func(k string, v value.Value) error {
			obj.Set(k, v)
			return nil
		})
	}
	return merged, nil
}

// Empty reports whether v is Null, the empty string, an empty Array, or an
// empty Object.
func Empty(_ context.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, errs.Wrap(errs.ArgumentError, "empty takes exactly one argument")
	}
	v := args[0]
	switch v.Kind() {
	case value.KindNull:
		return value.Bool(true), nil
	case value.KindString:
		s, _ := v.AsString()
		return value.Bool(s == ""), nil
	case value.KindArray:
		arr, _ := v.AsArray()
		return value.Bool(len(arr) == 0), nil
	case value.KindObject:
		obj, _ := v.AsObject()
		return value.Bool(obj.Len() == 0), nil
	default:
		return value.Value{}, errs.Wrap(errs.TypeMismatch, "empty does not support %s", v.Kind())
	}
}

// Guid generates a random UUID, formatted per the optional fmt argument
// ("n", "d", "b", "p", or "x"; default "d").
func Guid(_ context.Context, args []value.Value) (value.Value, error) {
	u := uuid.New()
	switch len(args) {
	case 0:
		return value.Str(formatGuid(u, "d")), nil
	case 1:
		format, err := args[0].AsString()
		if err != nil {
			return value.Value{}, errs.Wrap(errs.ArgumentError, "guid format must be a String")
		}
		formatted, ok := tryFormatGuid(u, format)
		if !ok {
			return value.Value{}, errs.Wrap(errs.ArgumentError, "unrecognised guid format %q", format)
		}
		return value.Str(formatted), nil
	default:
		return value.Value{}, errs.Wrap(errs.ArgumentError, "guid takes zero or one argument")
	}
}

func tryFormatGuid(u uuid.UUID, format string) (string, bool) {
	switch strings.ToLower(format) {
	case "n", "d", "b", "p", "x":
		return formatGuid(u, strings.ToLower(format)), true
	default:
		return "", false
	}
}

func formatGuid(u uuid.UUID, format string) string {
	dashed := u.String()
	hex := strings.ToUpper(strings.ReplaceAll(dashed, "-", ""))
	switch format {
	case "n":
		return hex
	case "b":
		return "{" + dashed + "}"
	case "p":
		return "(" + dashed + ")"
	case "x":
		return formatGuidX(u)
	default: // "d"
		return dashed
	}
}

func formatGuidX(u uuid.UUID) string {
	b := u[:]
	return "{0x" + hexSeg(b[0:4]) +
		",0x" + hexSeg(b[4:6]) +
		",0x" + hexSeg(b[6:8]) +
		",{0x" + strings.Join(hexBytes(b[8:16]), ",0x") + "}}"
}

func hexSeg(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

func hexBytes(b []byte) []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = hexSeg([]byte{c})
	}
	return out
}

// Concat is a demonstration handler: string concatenation via Stringify.
func Concat(_ context.Context, args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.Stringify())
	}
	return value.Str(sb.String()), nil
}

// ToUpper is a demonstration handler over a single String argument.
func ToUpper(_ context.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, errs.Wrap(errs.ArgumentError, "toUpper takes exactly one argument")
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.Str(strings.ToUpper(s)), nil
}

// First is a demonstration handler: the first element of an Array.
func First(_ context.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, errs.Wrap(errs.ArgumentError, "first takes exactly one argument")
	}
	return args[0].Index(0)
}

// CreateArray is a demonstration handler: a variadic Array constructor.
func CreateArray(_ context.Context, args []value.Value) (value.Value, error) {
	return value.NewArray(args...), nil
}
