package grammar

import "fmt"

// GrammarError reports a failure while compiling a grammar definition.
// It is raised only at load time; a grammar that compiled successfully
// never fails during tokenization.
type GrammarError struct {
	// Scope is the grammar's scopeName, if it was parsed before the
	// failure.
	Scope string

	// Detail describes what was wrong.
	Detail string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	msg := "grammar"
	if e.Scope != "" {
		msg += " " + e.Scope
	}
	msg += ": " + e.Detail
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GrammarError) Unwrap() error {
	return e.Err
}
