package wire

import (
	"regexp"
	"strconv"
)

// ID is a record identifier: 1 to 255 characters from [A-Za-z0-9_-].
type ID string

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)

// ParseID validates s as an Id.
func ParseID(s string) (ID, error) {
	if !idPattern.MatchString(s) {
		return "", &ValidationError{Type: "Id", Value: s, Reason: "must be 1-255 chars of [A-Za-z0-9_-]"}
	}
	return ID(s), nil
}

// MustID is ParseID for trusted constants. It panics on invalid input.
func MustID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return string(id)
}

// Int is a signed integer bounded to the range safely representable in a
// JSON number: [-(2^53-1), 2^53-1].
type Int int64

const (
	// MaxInt is the largest magnitude a wire integer may carry.
	MaxInt Int = 1<<53 - 1
	// MinInt mirrors MaxInt on the negative side.
	MinInt Int = -MaxInt
)

// ParseInt validates v against the Int bounds.
func ParseInt(v int64) (Int, error) {
	if v < int64(MinInt) || v > int64(MaxInt) {
		return 0, &ValidationError{Type: "Int", Value: v, Reason: "outside [-(2^53-1), 2^53-1]"}
	}
	return Int(v), nil
}

// ParseIntString parses a decimal string into a bounded Int.
func ParseIntString(s string) (Int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Type: "Int", Value: s, Reason: "not a decimal integer"}
	}
	return ParseInt(v)
}

func (i Int) Int64() int64 {
	return int64(i)
}

// UnsignedInt is an Int additionally bounded below by zero.
type UnsignedInt int64

// MaxUnsignedInt is the upper bound shared with Int.
const MaxUnsignedInt UnsignedInt = 1<<53 - 1

// ParseUnsignedInt validates v against the UnsignedInt bounds.
func ParseUnsignedInt(v int64) (UnsignedInt, error) {
	if v < 0 || v > int64(MaxUnsignedInt) {
		return 0, &ValidationError{Type: "UnsignedInt", Value: v, Reason: "outside [0, 2^53-1]"}
	}
	return UnsignedInt(v), nil
}

// ParseUnsignedIntString parses a decimal string into a bounded UnsignedInt.
func ParseUnsignedIntString(s string) (UnsignedInt, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Type: "UnsignedInt", Value: s, Reason: "not a decimal integer"}
	}
	return ParseUnsignedInt(v)
}

func (u UnsignedInt) Int64() int64 {
	return int64(u)
}
