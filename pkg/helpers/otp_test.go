package helpers

import (
	"strconv"
	"testing"
)

func TestGenOTPCodeRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenOTPCode()
		if err != nil {
			t.Fatalf("GenOTPCode error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}
