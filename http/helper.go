package http

import (
	"errors"
	"math"
)

var errInvalidNumber = errors.New("invalid number")

// atoi parses a non-negative decimal number without sign or spaces.
func atoi(s string) (int64, error) {
	if s == "" {
		return 0, errInvalidNumber
	}

	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidNumber
		}
		if n > (math.MaxInt64-int64(c-'0'))/10 {
			return 0, errInvalidNumber
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}
