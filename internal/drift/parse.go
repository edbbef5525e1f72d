package drift

import (
	"math"
	"strings"
)

const fieldSep = "\t"

// Row is one input line: a 90 kHz PCR value and a wall-clock timestamp in
// nanoseconds.
type Row struct {
	Pcr       int64
	Timestamp int64
}

// ParseRow reads the first two tab separated fields of line. Missing fields
// are zero and extra fields are ignored.
func ParseRow(line string) Row {
	fields := strings.SplitN(line, fieldSep, 3)
	var row Row
	if len(fields) > 0 {
		row.Pcr = ParseInt(fields[0])
	}
	if len(fields) > 1 {
		row.Timestamp = ParseInt(fields[1])
	}
	return row
}

// ParseInt converts the leading integer of s, never failing. Leading white
// space is skipped, an optional sign is honoured and digits are consumed
// until the first non-digit. A single underscore between two digits is
// accepted as a separator. When no digits are found the result is 0, and
// values outside the int64 range saturate.
func ParseInt(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var v uint64
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	saturated := false
	for ; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if i+1 < len(s) && isDigit(s[i+1]) && i > 0 && isDigit(s[i-1]) {
				continue
			}
			break
		}
		if !isDigit(c) {
			break
		}
		if saturated {
			continue
		}
		d := uint64(c - '0')
		if v > (limit-d)/10 {
			v = limit
			saturated = true
			continue
		}
		v = v*10 + d
	}

	if neg {
		if v == uint64(math.MaxInt64)+1 {
			return math.MinInt64
		}
		return -int64(v)
	}
	return int64(v)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
