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

// Package params solves for the (p_r, q_r, p_e, q_e, b, r, epsilon, k) tuples
// that drive the codec: the graph primes the left code and the expander are
// built from, the block size, and the resulting rate/distance trade-off.
package params

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/ChaniMil/ECC-linear-time/internal/field"
)

// Tuple is a fully solved parameter set, P = (p_r, q_r, p_e, q_e, b, r, epsilon, k).
type Tuple struct {
	Pr, Qr, Pe, Qe, B int
	R, Epsilon        float64
	K                 int
}

// ErrNoTuple is returned when a solver mode cannot find a tuple satisfying
// its constraints within the given prime limit.
var ErrNoTuple = errors.New("params: no tuple satisfies the given constraints")

// catalog is the enumeration of every admissible (p,q) pair up to a prime
// limit, shared by all three solver modes.
type catalog struct {
	kToPQ  map[int][2]int // k -> [p, q]
	psForQ map[int][]int  // q -> admissible p's, ascending
	qsForP map[int][]int  // p -> admissible q's, ascending
	kOrder []int          // distinct k values, ascending
	tail   []int          // primes_1_mod_4[8:], the d > 64 candidates
}

// buildCatalog mirrors find_k_p_q: every prime q 1 mod 4 up to primeLimit is
// paired against the "large" primes (those past the first eight, so that
// degree p+1 exceeds 64) with Legendre(p,q) = -1, excluding the known
// non-Ramanujan (193,13) pair.
func buildCatalog(primeLimit int) *catalog {
	primes := field.Primes1Mod4(primeLimit)
	var tail []int
	if len(primes) > 8 {
		tail = primes[8:]
	}

	c := &catalog{
		kToPQ:  make(map[int][2]int),
		psForQ: make(map[int][]int),
		qsForP: make(map[int][]int),
		tail:   tail,
	}

	type row struct{ p, q, k int }
	var data []row
	for _, q := range primes {
		c.psForQ[q] = nil
		for _, p := range tail {
			if !field.IsAdmissiblePair(p, q) {
				continue
			}
			n := q * (q*q - 1)
			if p+1 >= n {
				continue
			}
			k := n * (p + 1) / 2
			c.psForQ[q] = append(c.psForQ[q], p)
			data = append(data, row{p, q, k})
		}
	}
	for _, p := range tail {
		c.qsForP[p] = nil
		for _, q := range primes {
			if !field.IsAdmissiblePair(p, q) {
				continue
			}
			c.qsForP[p] = append(c.qsForP[p], q)
		}
	}

	sort.Slice(data, func(i, j int) bool { return data[i].k < data[j].k })
	seen := make(map[int]bool, len(data))
	for _, r := range data {
		c.kToPQ[r.k] = [2]int{r.p, r.q}
		if !seen[r.k] {
			seen[r.k] = true
			c.kOrder = append(c.kOrder, r.k)
		}
	}
	return c
}

// SolveByDimension finds the smallest admissible tuple whose code dimension
// k is at least the requested value, assuming q_e = q_r (a single graph's
// vertex set serves both the left code and the interleaver).
func SolveByDimension(k, primeLimit int) (Tuple, error) {
	c := buildCatalog(primeLimit)

	atLeastK := 0
	for _, candidate := range c.kOrder {
		if candidate >= k {
			atLeastK = candidate
			break
		}
	}
	if atLeastK == 0 {
		return Tuple{}, errors.Wrapf(ErrNoTuple, "no k >= %d within prime limit %d", k, primeLimit)
	}

	pq := c.kToPQ[atLeastK]
	pr, q := pq[0], pq[1]
	d := pr + 1
	epsilon := 16 * float64(d/64) / float64(d)
	nTag := (1 + epsilon/4) * float64(atLeastK)
	n := q * (q*q - 1) / 2
	b := int(nTag / float64(n))

	pe := 0
	for _, p := range c.psForQ[q] {
		if p+1 > b && 4*float64(b)/(float64(p+1)*(4+epsilon))+epsilon < 1 {
			pe = p
			break
		}
	}
	if pe == 0 {
		return SolveByDimension(atLeastK+1, primeLimit)
	}

	delta := pe + 1
	r := 4 * float64(b) / (float64(delta) * (4 + epsilon))
	return Tuple{Pr: pr, Qr: q, Pe: pe, Qe: q, B: b, R: r, Epsilon: epsilon, K: atLeastK}, nil
}

// SolveExact finds every tuple matching an exact (r, epsilon) target. With
// allowPadding false, only tuples requiring no block padding are returned;
// with it true, tuples that need a small amount of padding (bounded by
// delta/16 symbols) are included too.
func SolveExact(r, epsilon float64, allowPadding bool, primeLimit, maxK int) []Tuple {
	c := buildCatalog(primeLimit)

	var out []Tuple
	for _, k := range c.kOrder {
		if k > maxK {
			continue
		}
		pq := c.kToPQ[k]
		pr, qr := pq[0], pq[1]
		nTag := (1 + epsilon/4) * float64(k)
		if nTag != math.Trunc(nTag) {
			continue
		}
		rTag := (1 + epsilon/4) * r
		deltaN := float64(k) / r

		for _, pe := range c.tail {
			for _, qe := range c.qsForP[pe] {
				n := qe * (qe*qe - 1) / 2
				delta := pe + 1
				if n < delta {
					continue
				}
				b := int(rTag * float64(delta))
				bPadding := rTag*float64(delta) - nTag/float64(n)
				if float64(delta*n) < deltaN || bPadding >= float64(delta)/16 {
					continue
				}
				if !allowPadding && bPadding != 0.0 {
					continue
				}
				rateEff := float64(k) / float64(delta*n)
				out = append(out, Tuple{Pr: pr, Qr: qr, Pe: pe, Qe: qe, B: b, R: rateEff, Epsilon: epsilon, K: k})
			}
		}
	}
	return out
}

// SolveByTarget finds every tuple whose epsilon lands within epsDist of the
// requested epsilon and whose rate lies strictly above r and less than rDist
// above it, with rate+epsilon < 1. Results are not sorted.
func SolveByTarget(r, epsilon, rDist, epsDist float64, primeLimit, maxK int) []Tuple {
	c := buildCatalog(primeLimit)

	type candidate struct {
		pr      int
		epsilon float64
	}
	var goodPrs []candidate
	for _, pr := range c.tail {
		d := pr + 1
		epsilonOpt := 32 * math.Round(epsilon*float64(d)/32) / float64(d)
		if epsilonOpt != 0 && math.Abs(epsilon-epsilonOpt) < epsDist {
			goodPrs = append(goodPrs, candidate{pr: pr, epsilon: epsilonOpt})
		}
	}

	var out []Tuple
	for _, cand := range goodPrs {
		for _, q := range c.qsForP[cand.pr] {
			k := q * (q*q - 1) * (cand.pr + 1) / 2
			if k > maxK {
				continue
			}
			nTag := (1 + cand.epsilon/4) * float64(k)
			n := q * (q*q - 1) / 2
			b := int(math.Round(nTag / float64(n)))

			for _, pe := range c.psForQ[q] {
				rOpt := 4 * float64(b) / (float64(pe+1) * (4 + cand.epsilon))
				if rOpt+cand.epsilon < 1 && rOpt > r && rOpt-r < rDist {
					out = append(out, Tuple{Pr: cand.pr, Qr: q, Pe: pe, Qe: q, B: b, R: rOpt, Epsilon: cand.epsilon, K: k})
				}
			}
		}
	}
	return out
}
