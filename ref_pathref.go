package gdlevel

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef is an immutable JSON pointer into a raw record, used to place Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code string, cause error, kv ...any) Issue
}

// pointer holds the escaped segments, each prefixed by '/'. The zero value is the root.
type pointer string

var segmentEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Root returns the pointer to the whole record.
func Root() PathRef { return pointer("") }

// At wraps an already escaped pointer such as "/57/0". Empty segments are dropped.
func At(path string) PathRef {
	var sb strings.Builder
	for seg := range strings.SplitSeq(path, "/") {
		if seg != "" {
			sb.WriteByte('/')
			sb.WriteString(seg)
		}
	}
	return pointer(sb.String())
}

func (p pointer) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return p + pointer("/"+segmentEscaper.Replace(name))
}

func (p pointer) Index(i int) PathRef { return p + pointer("/"+strconv.Itoa(i)) }

func (p pointer) Pointer() string {
	if p == "" {
		return "/"
	}
	return string(p)
}

// Issue builds an Issue at p; kv are alternating param names and values.
func (p pointer) Issue(code string, cause error, kv ...any) Issue {
	var params map[string]any
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return IssueAt(p, code, cause, params)
}
