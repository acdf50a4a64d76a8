package pxid

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// Reference payload and its canonical token, shared across the test suite.
// The pair is the interoperability vector every port of the format agrees on.
var (
	refPayload = [PayloadLen]byte{0x4d, 0x88, 0xe1, 0x5b, 0x60, 0xf4, 0x86, 0xe4, 0x28, 0x41, 0x2d, 0xc9}
	refToken   = "9m4e2mr0ui3e8a215n4g"
)

// TestEncode tests encoding against known payload/token pairs
func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload [PayloadLen]byte
		want    string
	}{
		{"reference vector", refPayload, refToken},
		{"zero payload", [PayloadLen]byte{}, "00000000000000000000"},
		{"all ones", [PayloadLen]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "vvvvvvvvvvvvvvvvvvvg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.payload)
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
			if len(got) != EncodedLen {
				t.Errorf("Encode() length = %d, want %d", len(got), EncodedLen)
			}
		})
	}
}

// TestDecode tests decoding against known token/payload pairs
func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  [PayloadLen]byte
	}{
		{"reference vector", refToken, refPayload},
		{"zero token", "00000000000000000000", [PayloadLen]byte{}},
		{"all ones", "vvvvvvvvvvvvvvvvvvvg", [PayloadLen]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.token)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %x, want %x", got, tt.want)
			}
		})
	}
}

// TestDecodeInvalidLength tests rejection of tokens that are not 20 bytes
func TestDecodeInvalidLength(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"nineteen characters", refToken[:19]},
		{"twenty-one characters", refToken + "0"},
		{"double token", refToken + refToken},
		{"multibyte rune inflates length", refToken[:19] + "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if !errors.Is(err, ErrInvalidLength) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidLength", tt.token, err)
			}
		})
	}
}

// TestDecodeInvalidCharacter tests rejection of bytes outside the alphabet
func TestDecodeInvalidCharacter(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"letter past v", "9m4e2mr0ui3e8a215n4w"},
		{"x in the middle", "9mxe2mr0ui3e8a215n4g"},
		{"uppercase O", "Om4e2mr0ui3e8a215n4g"},
		{"all uppercase", "9M4E2MR0UI3E8A215N4G"},
		{"tilde", "9m4e2mr0ui3e8a215n4~"},
		{"hyphen", "9m4e-mr0ui3e8a215n4g"},
		{"space", "9m4e2mr0ui3e8a215n4 "},
		{"nul byte", "9m4e2mr0ui3e8a215n4\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if !errors.Is(err, ErrInvalidCharacter) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidCharacter", tt.token, err)
			}
		})
	}
}

// TestDecodeNonCanonicalFinalCharacter tests that the final character is
// accepted even when it is not one of the two canonical values. Only one
// bit of the twentieth character lands in the payload, so every alphabet
// character in the same half decodes identically.
func TestDecodeNonCanonicalFinalCharacter(t *testing.T) {
	base := refToken[:19]

	for _, c := range []string{"h", "v"} {
		got, err := Decode(base + c)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", base+c, err)
		}
		if got != refPayload {
			t.Errorf("Decode(%q) = %x, want %x", base+c, got, refPayload)
		}
	}

	// The lower half of the alphabet clears the payload's final bit.
	got, err := Decode(base + "0")
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", base+"0", err)
	}
	want := refPayload
	want[PayloadLen-1] &^= 0x01
	if got != want {
		t.Errorf("Decode(%q) = %x, want %x", base+"0", got, want)
	}

	// Re-encoding always yields the canonical form.
	if reencoded := Encode(got); reencoded != base+"0" {
		t.Errorf("Encode() = %q, want %q", reencoded, base+"0")
	}
}

// TestEncodeDecodeRoundTrip tests the inverse property over random payloads
func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		var payload [PayloadLen]byte
		rng.Read(payload[:])

		token := Encode(payload)
		if len(token) != EncodedLen {
			t.Fatalf("Encode() length = %d, want %d", len(token), EncodedLen)
		}

		decoded, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", token, err)
		}
		if decoded != payload {
			t.Fatalf("round trip: got %x, want %x (token %q)", decoded, payload, token)
		}
	}
}

// TestEncodePreservesOrder tests that token order matches payload byte order.
// The alphabet is ASCII-ordered and the packing is big-endian, so sorting
// tokens lexicographically sorts the underlying payloads.
func TestEncodePreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		var a, b [PayloadLen]byte
		rng.Read(a[:])
		rng.Read(b[:])

		byteOrder := bytes.Compare(a[:], b[:])
		tokenOrder := strings.Compare(Encode(a), Encode(b))
		if byteOrder != tokenOrder {
			t.Fatalf("order mismatch: bytes.Compare = %d, strings.Compare = %d (a=%x b=%x)",
				byteOrder, tokenOrder, a, b)
		}
	}
}

// TestDecodeMap tests the decode table: every alphabet character maps back
// to its index and every other byte is marked invalid
func TestDecodeMap(t *testing.T) {
	inAlphabet := make(map[byte]bool, len(encodeMap))
	for i := 0; i < len(encodeMap); i++ {
		c := encodeMap[i]
		inAlphabet[c] = true
		if decodeMap[c] != byte(i) {
			t.Errorf("decodeMap[%q] = %d, want %d", c, decodeMap[c], i)
		}
	}

	for b := 0; b < 256; b++ {
		if inAlphabet[byte(b)] {
			continue
		}
		if decodeMap[b] != 0xFF {
			t.Errorf("decodeMap[%#x] = %d, want 0xFF", b, decodeMap[b])
		}
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

// BenchmarkEncode benchmarks payload encoding
func BenchmarkEncode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Encode(refPayload)
	}
}

// BenchmarkDecode benchmarks token decoding
func BenchmarkDecode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(refToken)
	}
}
