package als

import "fmt"

// ParseError reports an unreadable or malformed project file. It is fatal
// for the file but never for a batch run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedStructureError reports a file that decompressed and parsed as
// XML but is missing a required root element.
type UnsupportedStructureError struct {
	Path    string
	Missing string
}

func (e *UnsupportedStructureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported structure: missing <%s>", e.Missing)
	}
	return fmt.Sprintf("unsupported structure in %s: missing <%s>", e.Path, e.Missing)
}
