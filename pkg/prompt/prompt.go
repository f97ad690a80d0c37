// Package prompt provides operator interaction: a stdin-decoupled
// confirmation primitive for testable flows and huh-based forms for the
// interactive surface.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Response is the tri-state outcome of a confirmation prompt.
type Response int

const (
	// No declines the action.
	No Response = iota
	// Yes accepts the action.
	Yes
	// Help asks for an explanation before deciding.
	Help
)

// maxRetries bounds how many malformed answers a prompt tolerates.
const maxRetries = 3

// ErrTooManyRetries is returned when the operator never gives a usable answer.
var ErrTooManyRetries = fmt.Errorf("no valid answer after %d attempts", maxRetries)

// ParseResponse interprets a single answer string.
func ParseResponse(s string) (Response, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Yes, true
	case "n", "no":
		return No, true
	case "h", "help", "?":
		return Help, true
	default:
		return No, false
	}
}

// Confirm asks question on w and reads answers from r until it gets a
// yes/no, printing help when asked. Retries are bounded so a closed or
// garbage input stream cannot loop forever.
func Confirm(r io.Reader, w io.Writer, question, help string) (Response, error) {
	scanner := bufio.NewScanner(r)

	for attempt := 0; attempt < maxRetries; attempt++ {
		fmt.Fprintf(w, "%s [y/n/?]: ", question)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return No, err
			}
			return No, io.EOF
		}

		resp, ok := ParseResponse(scanner.Text())
		if !ok {
			fmt.Fprintln(w, "please answer y, n, or ? for help")
			continue
		}
		if resp == Help {
			fmt.Fprintln(w, help)
			continue
		}
		return resp, nil
	}

	return No, ErrTooManyRetries
}
