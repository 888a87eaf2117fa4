package service

import (
	"math"
	"strings"
)

// Short links are not stored anywhere: the token is the recipe id written as
// a positional base-64 number, most significant digit first, no padding.
const shortLinkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// EncodeRecipeID converts a recipe id into its short-link token.
func EncodeRecipeID(id uint64) string {
	if id == 0 {
		return shortLinkAlphabet[:1]
	}
	// 11 base-64 digits cover the full uint64 range.
	var buf [11]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = shortLinkAlphabet[id%64]
		id /= 64
	}
	return string(buf[i:])
}

// DecodeRecipeID is the exact inverse of EncodeRecipeID. Empty tokens,
// bytes outside the alphabet and values that overflow 64 bits all yield
// ErrBadToken, never a panic.
func DecodeRecipeID(token string) (uint64, error) {
	if token == "" {
		return 0, ErrBadToken
	}
	var n uint64
	for i := 0; i < len(token); i++ {
		d := strings.IndexByte(shortLinkAlphabet, token[i])
		if d < 0 {
			return 0, ErrBadToken
		}
		if n > (math.MaxUint64-uint64(d))/64 {
			return 0, ErrBadToken
		}
		n = n*64 + uint64(d)
	}
	return n, nil
}
