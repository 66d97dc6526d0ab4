// Package codec holds the raw value transforms of the object and save records:
// decimal ints, fixed-point floats, "1"/"0" flags, base64 text and the
// identity-backed references.
package codec

import (
	"encoding/base64"
	"strconv"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/dsl"
)

// Int converts a decimal string to int.
func Int() gdlevel.Transform {
	return dsl.FuncOf(
		func(s string) (int, error) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return 0, formatErr("decimal integer", err)
			}
			return n, nil
		},
		func(n int) (string, error) { return strconv.Itoa(n), nil },
	)
}

// Float converts a decimal string to float64. Compile always writes three
// decimals, so "0" and "0.000" analyze to the same value and compile to the
// latter.
func Float() gdlevel.Transform {
	return dsl.FuncOf(
		func(s string) (float64, error) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, formatErr("decimal number", err)
			}
			return f, nil
		},
		func(f float64) (string, error) { return strconv.FormatFloat(f, 'f', 3, 64), nil },
	)
}

// Bool treats "1" as true and anything else as false; Compile writes "1" or "0".
func Bool() gdlevel.Transform {
	return dsl.FuncOf(
		func(s string) (bool, error) { return s == "1", nil },
		func(b bool) (string, error) {
			if b {
				return "1", nil
			}
			return "0", nil
		},
	)
}

// Str passes strings through, rejecting anything else.
func Str() gdlevel.Transform {
	return dsl.FuncOf(
		func(s string) (string, error) { return s, nil },
		func(s string) (string, error) { return s, nil },
	)
}

// B64Str decodes URL-safe base64 text. Unpadded input is accepted; Compile pads.
func B64Str() gdlevel.Transform {
	return dsl.FuncOf(
		func(s string) (string, error) {
			b, err := base64.URLEncoding.DecodeString(s)
			if err != nil {
				if b, err = base64.RawURLEncoding.DecodeString(s); err != nil {
					return "", formatErr("url-safe base64", err)
				}
			}
			return string(b), nil
		},
		func(s string) (string, error) { return base64.URLEncoding.EncodeToString([]byte(s)), nil },
	)
}

func formatErr(expected string, cause error) error {
	return gdlevel.Fail(gdlevel.CodeInvalidFormat, cause, "expected "+expected)
}
