// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"testing"
)

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		name    string
		want    WindowFunc
		wantErr bool
	}{
		{"", Rectangular, false},
		{"none", Rectangular, false},
		{"rect", Rectangular, false},
		{"Rectangular", Rectangular, false},
		{"hann", Hann, false},
		{"HANNING", Hann, false},
		{"hamming", Hamming, false},
		{"blackman", Blackman, false},
		{"blackmannuttall", BlackmanNuttall, false},
		{"bartletthann", BartlettHann, false},
		{"lanczos", Lanczos, false},
		{"nuttall", Nuttall, false},
		{"kaiser", Rectangular, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWindowFunc(tc.name)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseWindowFunc(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseWindowFunc(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestWindowCoeffsRectangularIsNil(t *testing.T) {
	if coeffs := windowCoeffs(1024, Rectangular); coeffs != nil {
		t.Error("expected no coefficient buffer for the rectangular window")
	}
}

func TestWindowCoeffsHannShape(t *testing.T) {
	const size = 64
	coeffs := windowCoeffs(size, Hann)
	if len(coeffs) != size {
		t.Fatalf("coefficient length %d, expected %d", len(coeffs), size)
	}

	// Hann tapers to zero at the edges and peaks mid-window.
	if coeffs[0] > 1e-9 {
		t.Errorf("edge coefficient %g, expected ~0", coeffs[0])
	}
	if mid := coeffs[size/2]; math.Abs(mid-1) > 0.01 {
		t.Errorf("center coefficient %g, expected ~1", mid)
	}
	for i, c := range coeffs {
		if c < 0 || c > 1 {
			t.Fatalf("coefficient %d = %g outside [0, 1]", i, c)
		}
	}
}
