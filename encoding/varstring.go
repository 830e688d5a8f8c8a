package encoding

import "fmt"

// MaxVarStringLength is the maximum length of a var-string in bytes.
// The uint8 length prefix caps strings at 255 bytes, which is ample for
// basenames and region labels.
const MaxVarStringLength = 255

// AppendVarString appends s to buf with a uint8 length prefix and returns
// the extended buffer.
//
// Encoding format:
//   - 1 byte: length as uint8 (0-255)
//   - N bytes: UTF-8 string data
//
// Returns an error if s exceeds MaxVarStringLength.
func AppendVarString(buf []byte, s string) ([]byte, error) {
	if len(s) > MaxVarStringLength {
		return buf, fmt.Errorf("string length %d exceeds maximum %d", len(s), MaxVarStringLength)
	}

	buf = append(buf, uint8(len(s)))
	buf = append(buf, s...)

	return buf, nil
}

// DecodeVarString decodes one var-string from the start of data.
//
// Returns:
//   - string: Decoded string
//   - int: Number of bytes consumed (1 + string length)
//   - error: Truncated-input error if data is shorter than the prefix claims
func DecodeVarString(data []byte) (string, int, error) {
	if len(data) < 1 {
		return "", 0, fmt.Errorf("var-string: empty input")
	}

	n := int(data[0])
	if len(data) < 1+n {
		return "", 0, fmt.Errorf("var-string: need %d bytes, have %d", 1+n, len(data))
	}

	return string(data[1 : 1+n]), 1 + n, nil
}

// VarStringSize returns the encoded size of s, including the length prefix.
func VarStringSize(s string) int {
	return 1 + len(s)
}
