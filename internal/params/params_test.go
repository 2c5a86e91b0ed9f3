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

package params

import (
	"testing"

	"github.com/ChaniMil/ECC-linear-time/internal/field"
)

func TestCatalogExcludesBlacklistedPair(t *testing.T) {
	c := buildCatalog(200)
	for _, p := range c.psForQ[13] {
		if p == 193 {
			t.Fatalf("psForQ[13] contains blacklisted p=193")
		}
	}
	for _, q := range c.qsForP[193] {
		if q == 13 {
			t.Fatalf("qsForP[193] contains blacklisted q=13")
		}
	}
}

func TestSolveByDimensionReturnsAdmissibleTuple(t *testing.T) {
	tup, err := SolveByDimension(1000, 200)
	if err != nil {
		t.Fatalf("SolveByDimension: %v", err)
	}
	if tup.K < 1000 {
		t.Fatalf("K = %d, want >= 1000", tup.K)
	}
	if !field.IsAdmissiblePair(tup.Pr, tup.Qr) {
		t.Fatalf("(Pr,Qr)=(%d,%d) is not admissible", tup.Pr, tup.Qr)
	}
	if !field.IsAdmissiblePair(tup.Pe, tup.Qe) {
		t.Fatalf("(Pe,Qe)=(%d,%d) is not admissible", tup.Pe, tup.Qe)
	}
	if tup.B <= 0 {
		t.Fatalf("B = %d, want > 0", tup.B)
	}
}

func TestSolveByDimensionErrorsBeyondPrimeLimit(t *testing.T) {
	if _, err := SolveByDimension(1<<40, 30); err == nil {
		t.Fatalf("expected an error for an unreachable k within a tiny prime limit")
	}
}

func TestSolveExactResultsAreConsistent(t *testing.T) {
	results := SolveExact(0.2, 0.25, false, 80, 500000)
	for _, tup := range results {
		if tup.Epsilon != 0.25 {
			t.Fatalf("Epsilon = %v, want 0.25", tup.Epsilon)
		}
		if !field.IsAdmissiblePair(tup.Pr, tup.Qr) {
			t.Fatalf("(Pr,Qr)=(%d,%d) is not admissible", tup.Pr, tup.Qr)
		}
		if !field.IsAdmissiblePair(tup.Pe, tup.Qe) {
			t.Fatalf("(Pe,Qe)=(%d,%d) is not admissible", tup.Pe, tup.Qe)
		}
	}
}

func TestSolveByTargetRespectsTolerances(t *testing.T) {
	results := SolveByTarget(0.05, 0.25, 0.15, 0.15, 80, 500000)
	for _, tup := range results {
		if tup.R <= 0.05 || tup.R-0.05 >= 0.15 {
			t.Fatalf("R = %v out of the requested (0.05, 0.2) window", tup.R)
		}
		if tup.R+tup.Epsilon >= 1 {
			t.Fatalf("R+Epsilon = %v, want < 1", tup.R+tup.Epsilon)
		}
	}
}
