package api

import (
	"fmt"
	"strconv"
)

// PageSelector is the parsed form of the page argument: either a plain page
// number, or an "a"/"b" cursor meaning after/before the given post id.
type PageSelector struct {
	// Cursor is 0 for plain page numbers, 'a' or 'b' otherwise.
	Cursor byte
	// Number is the page number, or the post id when Cursor is set.
	Number int
}

// ParsePageSelector parses a page argument. Valid forms are plain digits
// ("1"), or "a"/"b" followed by digits ("a13", "b13").
func ParsePageSelector(s string) (PageSelector, error) {
	if s == "" {
		return PageSelector{}, fmt.Errorf("page selector is empty")
	}

	var cursor byte
	digits := s
	if s[0] == 'a' || s[0] == 'b' {
		cursor = s[0]
		digits = s[1:]
	}

	// Atoi alone would let a sign through, the grammar is digits only.
	n, err := strconv.Atoi(digits)
	if err != nil || digits[0] < '0' || digits[0] > '9' {
		return PageSelector{}, fmt.Errorf("invalid page selector %q: must be a page number, or \"a\"/\"b\" followed by a post id", s)
	}

	return PageSelector{Cursor: cursor, Number: n}, nil
}

// Cursored reports whether the selector is an after/before cursor rather
// than a plain page number.
func (p PageSelector) Cursored() bool {
	return p.Cursor != 0
}

func (p PageSelector) String() string {
	if p.Cursored() {
		return string(p.Cursor) + strconv.Itoa(p.Number)
	}
	return strconv.Itoa(p.Number)
}
