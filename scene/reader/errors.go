package reader

import (
	"errors"
	"fmt"
	"strings"
)

// A stack of context messages appended to reader errors. Readers push a
// frame whenever they follow a reference to another file.
type errorStack []string

// Push a frame to the error stack.
func (s *errorStack) push(msg string) {
	*s = append([]string{msg}, (*s)...)
}

// Pop a frame from the error stack.
func (s *errorStack) pop() {
	*s = (*s)[1:]
}

// Generate an error message that also includes any data in the error stack.
func (s errorStack) emit(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(s, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(s, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}
