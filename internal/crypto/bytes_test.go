package crypto

import (
	"bytes"
	"testing"
)

func TestPushU32BE(t *testing.T) {
	buf := PushU32BE(nil, 0x01020304)
	if !bytes.Equal(buf, []byte{1, 2, 3, 4}) {
		t.Fatalf("PushU32BE = %v", buf)
	}

	buf = PushU32BE(buf, 0)
	if !bytes.Equal(buf, []byte{1, 2, 3, 4, 0, 0, 0, 0}) {
		t.Fatalf("PushU32BE append = %v", buf)
	}
}

func TestPushString(t *testing.T) {
	buf := PushString(PushU32BE(nil, 3), "mpw")
	if !bytes.Equal(buf, []byte{0, 0, 0, 3, 'm', 'p', 'w'}) {
		t.Fatalf("framed string = %v", buf)
	}
}

func TestBase64_RoundTrip(t *testing.T) {
	for _, input := range [][]byte{nil, {0}, []byte("stateful content"), bytes.Repeat([]byte{0xFF}, 33)} {
		encoded := EncodeBase64(input)
		decoded, err := DecodeBase64(encoded)
		if err != nil {
			t.Fatalf("DecodeBase64(%q) error: %v", encoded, err)
		}
		if !bytes.Equal(decoded, input) {
			t.Fatalf("round trip = %v, want %v", decoded, input)
		}
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("not!!base64"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestZero(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	Zero(buf)
	if !bytes.Equal(buf, make([]byte, 4)) {
		t.Fatalf("Zero left residue: %v", buf)
	}

	a, b := []byte{5}, []byte{6}
	ZeroMultiple(a, b)
	if a[0] != 0 || b[0] != 0 {
		t.Fatalf("ZeroMultiple left residue")
	}
}

func TestGrowSecret(t *testing.T) {
	buf := make([]byte, 2, 2)
	buf[0], buf[1] = 0xAA, 0xBB
	old := buf

	grown := GrowSecret(buf, 16)
	if cap(grown)-len(grown) < 16 {
		t.Fatalf("GrowSecret capacity = %d", cap(grown))
	}
	if grown[0] != 0xAA || grown[1] != 0xBB {
		t.Fatalf("GrowSecret lost contents")
	}
	if old[0] != 0 || old[1] != 0 {
		t.Fatalf("GrowSecret left residue in the old buffer")
	}
}
