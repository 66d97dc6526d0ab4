package gdlevel

import (
	"github.com/reoring/gdlevel/i18n"
)

// IssueAt creates an Issue at the given path with provided code, cause and params map.
// The message is looked up through i18n.
func IssueAt(p PathRef, code string, cause error, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, nil), Cause: cause, Params: params}
}

// Fail is a shorthand for a single-issue error at the root path.
func Fail(code string, cause error, hint string) error {
	return Issues{Issue{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint, Cause: cause}}
}

// IssuesFrom converts an error into Issues, wrapping non-Issues with CodeParseError.
func IssuesFrom(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{Issue{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path in err with "/"+seg. Non-Issues errors are
// wrapped as a parse error at that segment.
func Rebase(err error, seg string) error {
	if err == nil {
		return nil
	}
	base := Root().Field(seg).Pointer()
	child, ok := AsIssues(err)
	if !ok {
		return IssuesFrom(base, err)
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
