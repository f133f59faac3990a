package enumscan

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLiteral converts an enum value token to an unsigned 64-bit integer.
// One trailing comma is stripped. Accepted forms are plain decimal ("123")
// and 0x-prefixed hexadecimal ("0x7B"); signs, octal, binary and digit
// separators are rejected.
func ParseLiteral(tok string) (uint64, error) {
	lit := strings.TrimSuffix(tok, ",")

	digits, base := lit, 10
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		digits, base = lit[2:], 16
	}

	if digits == "" || digits[0] == '+' || digits[0] == '-' || strings.ContainsRune(digits, '_') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLiteral, tok)
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidLiteral, tok, err)
	}
	return v, nil
}
