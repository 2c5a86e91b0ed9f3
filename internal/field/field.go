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

// Package field provides the prime-sieving and Legendre-symbol primitives
// that the Ramanujan graph builder needs to pick admissible (p, q) pairs.
package field

// BlacklistedP, BlacklistedQ mark the one (p, q) pair that is known to fail
// regularity for this construction even though its Legendre symbol checks
// out: (193, 13).
const (
	BlacklistedP = 193
	BlacklistedQ = 13
)

// Primes1Mod4 sieves every prime in [2, limit] congruent to 1 mod 4, sorted
// ascending.
func Primes1Mod4(limit int) []int {
	if limit < 2 {
		return nil
	}

	sieve := make([]bool, limit+1)
	for i := 2; i <= limit; i++ {
		sieve[i] = true
	}
	for p := 2; p*p <= limit; p++ {
		if !sieve[p] {
			continue
		}
		for m := p * p; m <= limit; m += p {
			sieve[m] = false
		}
	}

	var out []int
	for n := 2; n <= limit; n++ {
		if sieve[n] && n%4 == 1 {
			out = append(out, n)
		}
	}
	return out
}

// Legendre reports the Legendre symbol (q/p), computed as q^((p-1)/2) mod p,
// i.e. whether q is a quadratic residue mod p: +1 if it is, -1 if it isn't
// (0 is never returned; a zero residue also reports +1). For primes
// congruent to 1 mod 4, as drawn from Primes1Mod4, quadratic reciprocity
// makes this equal to (p/q).
func Legendre(p, q int) int {
	symbol := powMod(q, (p-1)/2, p)
	if symbol == p-1 {
		return -1
	}
	return 1
}

// IsAdmissiblePair reports whether (p, q) is usable as Ramanujan-graph
// generator/field primes: both must be prime (caller guarantees this by
// drawing from Primes1Mod4), the Legendre symbol (p/q) must be -1, and the
// pair must not be the known-bad (193, 13).
func IsAdmissiblePair(p, q int) bool {
	if p == BlacklistedP && q == BlacklistedQ {
		return false
	}
	return Legendre(p, q) == -1
}

// powMod computes base^exp mod m using binary exponentiation, all in
// machine integers (the exponents/moduli this package ever sees fit
// comfortably in an int on a 64-bit platform).
func powMod(base, exp, m int) int {
	if m == 1 {
		return 0
	}
	result := 1
	base = base % m
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % m
		}
		exp >>= 1
		base = (base * base) % m
	}
	return result
}
