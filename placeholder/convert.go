package placeholder

import (
	"strconv"
	"strings"
)

// Convert applies best-effort literal conversion to a string: int first,
// then float, then bool, else the string itself. The order matters: "0"
// and "1" become ints, not bools.
func Convert(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}

	if b, ok := convertBool(text); ok {
		return b
	}

	return text
}

// convertBool recognizes the fixed vocabulary {false, no, 0} and
// {true, yes, 1}, case-insensitive.
func convertBool(text string) (bool, bool) {
	if len(text) > 5 {
		return false, false
	}

	switch strings.ToLower(text) {
	case "false", "no", "0":
		return false, true
	case "true", "yes", "1":
		return true, true
	default:
		return false, false
	}
}
