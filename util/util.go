package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingHexPrefix is returned when a quantity from the JSON-RPC wire
// lacks the mandatory 0x prefix.
var ErrMissingHexPrefix = errors.New("hex string missing 0x prefix")

// StripHexPrefix removes the 0x prefix from a wire hex string. The
// prefix is required, absence is an error rather than a passthrough.
func StripHexPrefix(hexStr string) (string, error) {
	if !strings.HasPrefix(hexStr, "0x") {
		return "", fmt.Errorf("%q: %w", hexStr, ErrMissingHexPrefix)
	}
	return hexStr[2:], nil
}

// ParseHexUint64 parses a 0x-prefixed big-endian hex quantity as uint64.
// JSON-RPC encodes integers big-endian; the deposit contract's own
// little-endian encoding applies only to event payload bytes, never to
// quantities parsed here.
func ParseHexUint64(hexStr string) (uint64, error) {
	stripped, err := StripHexPrefix(hexStr)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(stripped, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as hex uint64: %w", hexStr, err)
	}
	return value, nil
}

// Uint64ToHex converts a block number to its 0x-prefixed hex form.
func Uint64ToHex(u uint64) string {
	return "0x" + strconv.FormatUint(u, 16)
}

// StringToUint64 converts string to uint64
func StringToUint64(str string) (uint64, error) {
	ui64, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return ui64, nil
}

// Uint64ToString coverts uint64 to string
func Uint64ToString(u uint64) string {
	return strconv.FormatUint(u, 10)
}
