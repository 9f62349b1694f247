package common

import "encoding/hex"

// FromHex returns the bytes represented by the hexadecimal string s. s may
// be prefixed with "0x"; an odd-length string is left-padded with a zero
// nibble. Invalid input yields nil.
func FromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// ToHex encodes b as a lowercase hexadecimal string without prefix.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}
