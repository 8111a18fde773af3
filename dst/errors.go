package dst

import "fmt"

// ParseError is a syntactic failure discovered by the parser. Offset is the
// byte position in the source where the failure was detected.
type ParseError struct {
	Offset int
	Cause  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Cause)
}

func errAt(offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{Offset: offset, Cause: fmt.Sprintf(format, args...)}
}
