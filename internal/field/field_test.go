// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package field

import "testing"

func TestPrimes1Mod4(t *testing.T) {
	got := Primes1Mod4(50)
	want := []int{5, 13, 17, 29, 37, 41}
	if len(got) != len(want) {
		t.Fatalf("Primes1Mod4(50) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Primes1Mod4(50) = %v, want %v", got, want)
		}
	}
}

func TestPrimes1Mod4Empty(t *testing.T) {
	if got := Primes1Mod4(1); got != nil {
		t.Fatalf("Primes1Mod4(1) = %v, want nil", got)
	}
}

func TestLegendreKnownPair(t *testing.T) {
	// (5, 13): used throughout the seed tests (spec scenario 5).
	if got := Legendre(5, 13); got != -1 {
		t.Fatalf("Legendre(5, 13) = %d, want -1", got)
	}
}

func TestIsAdmissiblePairBlacklist(t *testing.T) {
	if IsAdmissiblePair(BlacklistedP, BlacklistedQ) {
		t.Fatalf("(193, 13) must be blacklisted regardless of its Legendre symbol")
	}
}

func TestIsAdmissiblePairRequiresNegativeSymbol(t *testing.T) {
	if !IsAdmissiblePair(5, 13) {
		t.Fatalf("(5, 13) should be admissible")
	}
}
