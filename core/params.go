package core

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// RequiredInt32 reads a mandatory int32 query parameter. Whitespace is
// ignored and empty values count as missing. Decimal takes an optional
// sign; hex is written 0x, 0X or # with an optional leading minus.
func RequiredInt32(values url.Values, name string) (int32, error) {
	raw := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, values.Get(name))
	if raw == "" {
		return 0, &BindError{Param: name, Err: ErrMissingParam}
	}

	n, ok := parseInt32(raw)
	if !ok {
		return 0, &BindError{Param: name, Value: raw, Err: ErrInvalidParam}
	}
	return n, nil
}

func parseInt32(raw string) (int32, bool) {
	neg := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")

	isHex := false
	for _, prefix := range []string{"0x", "0X", "#"} {
		if strings.HasPrefix(digits, prefix) {
			digits = strings.TrimPrefix(digits, prefix)
			isHex = true
			break
		}
	}
	if !isHex {
		n, err := strconv.ParseInt(raw, 10, 32)
		return int32(n), err == nil
	}

	if digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 16, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}
