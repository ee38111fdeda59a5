package digestcodec

import (
	"bytes"
	"math"
	"testing"
)

func TestWriteString_LengthPrefixed(t *testing.T) {
	var a, b bytes.Buffer
	var tmp [8]byte
	WriteString(&a, &tmp, "ab")
	WriteString(&a, &tmp, "c")
	WriteString(&b, &tmp, "a")
	WriteString(&b, &tmp, "bc")
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("expected distinct encodings for different splits")
	}
}

func TestWriteF64_BitExact(t *testing.T) {
	var a, b bytes.Buffer
	var tmp [8]byte
	WriteF64(&a, &tmp, 0)
	WriteF64(&b, &tmp, math.Copysign(0, -1))
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("expected +0 and -0 to differ")
	}
}
