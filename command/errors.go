package command

import "fmt"

// ArgumentsError is returned by Expect/ExpectRange when a handler receives
// the wrong number of arguments.
type ArgumentsError struct {
	Got, Min, Max int
}

func (e *ArgumentsError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("Arguments Error\nexpected %d argument(s), got %d", e.Min, e.Got)
	}
	if e.Max < 0 {
		return fmt.Sprintf("Arguments Error\nexpected at least %d argument(s), got %d", e.Min, e.Got)
	}
	return fmt.Sprintf("Arguments Error\nexpected %d-%d argument(s), got %d", e.Min, e.Max, e.Got)
}

// NotFoundError is returned when no handler answers to name.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("Command Not Found\nunknown command %q", e.Name)
	}
	return fmt.Sprintf("Command Not Found\nunknown command %q, did you mean one of: %v?", e.Name, e.Suggestions)
}

// Expect checks that args has exactly n elements.
func Expect(args []string, n int) error {
	if len(args) != n {
		return &ArgumentsError{Got: len(args), Min: n, Max: n}
	}
	return nil
}

// ExpectRange checks that len(args) is within [lo, hi] inclusive. hi < 0
// means unbounded above.
func ExpectRange(args []string, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return &ArgumentsError{Got: len(args), Min: lo, Max: hi}
	}
	return nil
}
