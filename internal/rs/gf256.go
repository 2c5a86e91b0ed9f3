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

package rs

// GF(256) arithmetic with primitive polynomial 0x11d and generator 2, the
// same field convention klauspost/reedsolomon builds its multiplication
// tables from. exp/log tables are built once at package init.

const (
	fieldSize = 256
	primPoly  = 0x11d
	generator = 2
)

var (
	gfExp [512]byte
	gfLog [256]int
)

func init() {
	x := 1
	for i := 0; i < fieldSize-1; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = i
		x = gfMulNoLUT(x, generator)
	}
	for i := fieldSize - 1; i < 512; i++ {
		gfExp[i] = gfExp[i-(fieldSize-1)]
	}
}

// gfMulNoLUT multiplies two field elements by carry-less multiplication
// followed by reduction modulo primPoly; used only to seed the exp/log
// tables above.
func gfMulNoLUT(a, b int) int {
	r := 0
	for b > 0 {
		if b&1 != 0 {
			r ^= a
		}
		b >>= 1
		a <<= 1
		if a&0x100 != 0 {
			a ^= primPoly
		}
	}
	return r
}

func gfAdd(a, b byte) byte { return a ^ b }

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[gfLog[a]+gfLog[b]]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("rs: division by zero in GF(256)")
	}
	return gfExp[(gfLog[a]+255-gfLog[b])%255]
}

func gfPow(a byte, power int) byte {
	if a == 0 {
		if power == 0 {
			return 1
		}
		return 0
	}
	e := (gfLog[a] * power) % 255
	if e < 0 {
		e += 255
	}
	return gfExp[e]
}

func gfInverse(a byte) byte {
	return gfExp[255-gfLog[a]]
}

// polynomials are stored MSB-first: poly[0] is the highest-degree
// coefficient, matching the classical RS literature and reedsolo's layout.

func polyScale(p []byte, x byte) []byte {
	out := make([]byte, len(p))
	for i, c := range p {
		out[i] = gfMul(c, x)
	}
	return out
}

func polyAdd(p, q []byte) []byte {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make([]byte, n)
	for i := 0; i < len(p); i++ {
		out[i+n-len(p)] = p[i]
	}
	for i := 0; i < len(q); i++ {
		out[i+n-len(q)] ^= q[i]
	}
	return out
}

func polyMul(p, q []byte) []byte {
	out := make([]byte, len(p)+len(q)-1)
	for j, qc := range q {
		if qc == 0 {
			continue
		}
		for i, pc := range p {
			out[i+j] ^= gfMul(pc, qc)
		}
	}
	return out
}

// polyEval evaluates p(x) at field element x via Horner's method.
func polyEval(p []byte, x byte) byte {
	var y byte
	if len(p) > 0 {
		y = p[0]
	}
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}
