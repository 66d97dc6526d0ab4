package gdlevel

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeInvalidValue    = "invalid_value"
	CodeInvalidFormat   = "invalid_format"
	CodeMissingKey      = "missing_key"
	CodeUnknownKey      = "unknown_key"
	CodeDuplicateKey    = "duplicate_key"
	CodeNoMapping       = "no_mapping"
	CodeUnknownClass    = "unknown_class"
	CodeParseError      = "parse_error"
	CodeNoActiveModule  = "no_active_module"
	CodeAllocationLimit = "allocation_limit"
)

// Sentinel errors. Issues carry them as Cause so callers can use errors.Is.
var (
	ErrMissingKey          = errors.New("gdlevel: missing key")
	ErrUnknownKey          = errors.New("gdlevel: unknown key")
	ErrNoMapping           = errors.New("gdlevel: no mapping for value")
	ErrInvalidValue        = errors.New("gdlevel: invalid value")
	ErrDuplicateKey        = errors.New("gdlevel: duplicate raw key")
	ErrDuplicateName       = errors.New("gdlevel: duplicate name")
	ErrEmptyBinding        = errors.New("gdlevel: binding has neither key nor name")
	ErrClassRegistered     = errors.New("gdlevel: class already registered")
	ErrUnknownClass        = errors.New("gdlevel: unknown class")
	ErrCategoryMismatch    = errors.New("gdlevel: identity category mismatch")
	ErrAbsorbConstant      = errors.New("gdlevel: cannot absorb a constant identity")
	ErrAbsorbed            = errors.New("gdlevel: identity was absorbed")
	ErrNoActiveModule      = errors.New("gdlevel: no active module in context")
	ErrAllocationExhausted = errors.New("gdlevel: no free value within scan limit")
)

// Issue represents a single decode or encode failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /57/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected formats, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"key":"57", "got":"x"})
	// for i18n and logging.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_key at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes of all issues to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
