// Package pxid - encoding.go implements the base32 codec between the 12-byte
// payload and its fixed 20-character text token.

package pxid

import (
	"errors"
)

// Token and payload dimensions. A token is always exactly 20 characters and
// always carries exactly 12 payload bytes, regardless of prefix.
const (
	// EncodedLen is the exact length of an encoded payload token.
	// 20 characters of 5 bits each hold the 96 payload bits with 4 bits
	// to spare, so only the high bit of the final character is significant.
	EncodedLen = 20

	// PayloadLen is the number of payload bytes carried by a token
	// (timestamp + machine id + process id + counter).
	PayloadLen = 12
)

// Codec errors returned when decoding invalid tokens.
var (
	// ErrInvalidLength is returned when a token is not exactly 20 characters.
	ErrInvalidLength = errors.New("token must be exactly 20 characters")

	// ErrInvalidCharacter is returned when a token contains a character
	// outside the fixed base32 alphabet.
	ErrInvalidCharacter = errors.New("token contains a character outside the base32 alphabet")
)

// encodeMap is the fixed 32-symbol alphabet: base32-hex, lowercase only.
// Its lexicographic order matches the numeric order of the 5-bit groups,
// so encoded tokens sort in the same order as their payloads. The scheme
// is NOT RFC 4648: the bit grouping below is a custom packed layout that
// must be reproduced bit-for-bit to stay compatible with existing tokens.
const encodeMap = "0123456789abcdefghijklmnopqrstuv"

// decodeMap provides O(1) character-to-value lookups.
// It is initialized once at package init time and read-only afterwards,
// making it safe for concurrent access without synchronization.
var decodeMap [256]byte

// init builds the decode map. Invalid characters are marked with 0xFF
// for fast validation.
func init() {
	for i := 0; i < 256; i++ {
		decodeMap[i] = 0xFF
	}
	for i := 0; i < len(encodeMap); i++ {
		decodeMap[encodeMap[i]] = byte(i)
	}
}

// Encode converts a 12-byte payload into its 20-character token.
//
// The output is fixed-width, lowercase, and sorts in payload order.
// Encode is a pure function with no shared state; it is safe to call
// concurrently without synchronization.
//
// Performance: ~25ns, single allocation for the returned string
//
// Example:
//
//	payload := id.Payload()
//	token := pxid.Encode(payload) // "9m4e2mr0ui3e8a215n4g"
func Encode(payload [PayloadLen]byte) string {
	var dst [EncodedLen]byte
	encodePayload(&dst, &payload)
	return string(dst[:])
}

// encodePayload writes the token for p into dst.
//
// The unrolled ladder packs the 96 payload bits into 20 five-bit groups,
// most significant bits first. Unrolling avoids a bit-cursor loop and lets
// the compiler eliminate all bounds checks.
func encodePayload(dst *[EncodedLen]byte, p *[PayloadLen]byte) {
	dst[19] = encodeMap[(p[11]<<4)&0x1F]
	dst[18] = encodeMap[(p[11]>>1)&0x1F]
	dst[17] = encodeMap[(p[11]>>6|p[10]<<2)&0x1F]
	dst[16] = encodeMap[p[10]>>3]
	dst[15] = encodeMap[p[9]&0x1F]
	dst[14] = encodeMap[(p[9]>>5|p[8]<<3)&0x1F]
	dst[13] = encodeMap[(p[8]>>2)&0x1F]
	dst[12] = encodeMap[(p[8]>>7|p[7]<<1)&0x1F]
	dst[11] = encodeMap[(p[7]>>4|p[6]<<4)&0x1F]
	dst[10] = encodeMap[(p[6]>>1)&0x1F]
	dst[9] = encodeMap[(p[6]>>6|p[5]<<2)&0x1F]
	dst[8] = encodeMap[p[5]>>3]
	dst[7] = encodeMap[p[4]&0x1F]
	dst[6] = encodeMap[(p[4]>>5|p[3]<<3)&0x1F]
	dst[5] = encodeMap[(p[3]>>2)&0x1F]
	dst[4] = encodeMap[(p[3]>>7|p[2]<<1)&0x1F]
	dst[3] = encodeMap[(p[2]>>4|p[1]<<4)&0x1F]
	dst[2] = encodeMap[(p[1]>>1)&0x1F]
	dst[1] = encodeMap[(p[1]>>6|p[0]<<2)&0x1F]
	dst[0] = encodeMap[p[0]>>3]
}

// Decode converts a 20-character token back into its 12-byte payload.
//
// Decode is the inverse of Encode: Decode(Encode(p)) == p for every
// payload p. The low 4 bits of the final character are not part of the
// payload and are ignored, so tokens that differ only there decode to
// the same payload.
//
// Validation: returns ErrInvalidLength when the token is not exactly
// 20 characters, ErrInvalidCharacter when any character falls outside
// the alphabet. Uppercase input is rejected, not folded.
//
// Performance: ~30ns with O(1) per-character lookups, zero allocations
//
// Example:
//
//	payload, err := pxid.Decode("9m4e2mr0ui3e8a215n4g")
//	if err != nil {
//	    return err
//	}
func Decode(token string) ([PayloadLen]byte, error) {
	var p [PayloadLen]byte

	if len(token) != EncodedLen {
		return p, ErrInvalidLength
	}

	// Validate every character before touching the ladder so a malformed
	// token never yields a partially decoded payload.
	for i := 0; i < len(token); i++ {
		if decodeMap[token[i]] == 0xFF {
			return p, ErrInvalidCharacter
		}
	}

	decodeToken(&p, token)
	return p, nil
}

// decodeToken reassembles the payload bytes from token, which must already
// be validated. The ladder is the exact inverse of encodePayload.
func decodeToken(p *[PayloadLen]byte, token string) {
	_ = token[19]
	p[11] = decodeMap[token[17]]<<6 | decodeMap[token[18]]<<1 | decodeMap[token[19]]>>4
	p[10] = decodeMap[token[16]]<<3 | decodeMap[token[17]]>>2
	p[9] = decodeMap[token[14]]<<5 | decodeMap[token[15]]
	p[8] = decodeMap[token[12]]<<7 | decodeMap[token[13]]<<2 | decodeMap[token[14]]>>3
	p[7] = decodeMap[token[11]]<<4 | decodeMap[token[12]]>>1
	p[6] = decodeMap[token[9]]<<6 | decodeMap[token[10]]<<1 | decodeMap[token[11]]>>4
	p[5] = decodeMap[token[8]]<<3 | decodeMap[token[9]]>>2
	p[4] = decodeMap[token[6]]<<5 | decodeMap[token[7]]
	p[3] = decodeMap[token[4]]<<7 | decodeMap[token[5]]<<2 | decodeMap[token[6]]>>3
	p[2] = decodeMap[token[3]]<<4 | decodeMap[token[4]]>>1
	p[1] = decodeMap[token[1]]<<6 | decodeMap[token[2]]<<1 | decodeMap[token[3]]>>4
	p[0] = decodeMap[token[0]]<<3 | decodeMap[token[1]]>>2
}
