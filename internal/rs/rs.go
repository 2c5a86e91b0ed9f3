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

// Package rs implements the systematic Reed-Solomon primitive that spec.md
// treats as an external black box: a code over GF(2^8), shortened to fit
// within the 255-symbol alphabet, that corrects any combination of errors
// and erasures up to the classical bound 2*errors+erasures <= redundancy.
//
// It is a direct Go port of the classical syndrome / Berlekamp-Massey /
// Forney decoding algorithm, the same algorithm the reference
// implementation reaches for via the Python reedsolo library.
package rs

import "github.com/pkg/errors"

var (
	// ErrTooManyErasures is returned when more positions are marked erased
	// than the code has redundancy to recover.
	ErrTooManyErasures = errors.New("rs: too many erasures to correct")
	// ErrUncorrectable is returned when the syndromes are non-zero but no
	// consistent error locator could be found, or correction left residual
	// syndromes: the received word has more errors than the code can
	// guarantee to fix.
	ErrUncorrectable = errors.New("rs: could not correct message")
	// ErrBadLength is returned when Encode/Decode are called with the
	// wrong slice length for the configured code.
	ErrBadLength = errors.New("rs: wrong input length for this code")
)

// Codec is a systematic RS(dataLen+redundancy, dataLen) code over GF(256),
// shortened so that dataLen+redundancy <= 255.
type Codec struct {
	dataLen    int
	redundancy int
	gen        []byte // generator polynomial, degree == redundancy, gen[0] == 1
}

// New builds a systematic RS codec with dataLen message bytes and
// redundancy parity bytes. redundancy == 0 is allowed (identity code).
func New(dataLen, redundancy int) (*Codec, error) {
	if dataLen < 0 || redundancy < 0 {
		return nil, errors.Errorf("rs: negative length dataLen=%d redundancy=%d", dataLen, redundancy)
	}
	if dataLen+redundancy > 255 {
		return nil, errors.Errorf("rs: dataLen+redundancy = %d exceeds GF(256) alphabet of 255", dataLen+redundancy)
	}
	return &Codec{
		dataLen:    dataLen,
		redundancy: redundancy,
		gen:        generatorPoly(redundancy),
	}, nil
}

// DataLen is the number of systematic (message) bytes this codec handles.
func (c *Codec) DataLen() int { return c.dataLen }

// Redundancy is the number of parity bytes this codec appends.
func (c *Codec) Redundancy() int { return c.redundancy }

// Len is DataLen()+Redundancy(), the total codeword length.
func (c *Codec) Len() int { return c.dataLen + c.redundancy }

// generatorPoly builds g(x) = product_{i=0}^{nsym-1} (x - alpha^i), stored
// MSB-first with a leading coefficient of 1.
func generatorPoly(nsym int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		g = polyMul(g, []byte{1, gfPow(generator, i)})
	}
	return g
}

// Encode returns the systematic codeword data||parity for a message of
// exactly DataLen() bytes.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data) != c.dataLen {
		return nil, errors.Wrapf(ErrBadLength, "Encode: got %d bytes, want %d", len(data), c.dataLen)
	}
	if c.redundancy == 0 {
		out := make([]byte, c.dataLen)
		copy(out, data)
		return out, nil
	}

	out := make([]byte, c.dataLen+c.redundancy)
	copy(out, data)
	// Systematic encoding by synthetic division: shift the message left by
	// redundancy positions and take the remainder of division by gen(x).
	for i := 0; i < c.dataLen; i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.gen); j++ {
			out[i+j] ^= gfMul(c.gen[j], coef)
		}
	}
	copy(out, data)
	return out, nil
}

// Decode corrects a received codeword of Len() bytes given a set of
// erasure positions (indices in [0, Len())), and returns the recovered
// systematic DataLen()-byte prefix together with the sorted list of
// positions (errata: erasures and/or errors) that were actually corrected.
//
// The position list lets callers detect the case spec.md calls out
// explicitly for the left code: a "successful" decode whose corrections
// touch only the redundancy suffix is meaningless noise, while corrections
// reaching into the redundancy region at all should be treated with
// suspicion by callers that, unlike this package, know which part of the
// codeword is supposed to be trustworthy.
func (c *Codec) Decode(received []byte, erasurePositions []int) (data []byte, errata []int, err error) {
	if len(received) != c.Len() {
		return nil, nil, errors.Wrapf(ErrBadLength, "Decode: got %d bytes, want %d", len(received), c.Len())
	}
	if c.redundancy == 0 {
		if len(erasurePositions) > 0 {
			return nil, nil, ErrTooManyErasures
		}
		out := make([]byte, c.dataLen)
		copy(out, received)
		return out, nil, nil
	}
	if len(erasurePositions) > c.redundancy {
		return nil, nil, ErrTooManyErasures
	}

	msg := make([]byte, len(received))
	copy(msg, received)
	for _, p := range erasurePositions {
		if p < 0 || p >= len(msg) {
			return nil, nil, errors.Errorf("rs: erasure position %d out of range [0,%d)", p, len(msg))
		}
		msg[p] = 0
	}

	synd := calcSyndromes(msg, c.redundancy)
	if allZero(synd) {
		out := make([]byte, c.dataLen)
		copy(out, msg[:c.dataLen])
		return out, nil, nil
	}

	fsynd := forneySyndromes(synd, erasurePositions, len(msg))
	errLoc, ok := findErrorLocator(fsynd, c.redundancy, len(erasurePositions))
	if !ok {
		return nil, nil, ErrUncorrectable
	}
	errPos, ok := findErrors(reverse(errLoc), len(msg))
	if !ok {
		return nil, nil, ErrUncorrectable
	}

	allPos := append(append([]int{}, erasurePositions...), errPos...)
	corrected, ok := correctErrata(msg, synd, allPos)
	if !ok {
		return nil, nil, ErrUncorrectable
	}

	verify := calcSyndromes(corrected, c.redundancy)
	if !allZero(verify) {
		return nil, nil, ErrUncorrectable
	}

	sortInts(allPos)
	out := make([]byte, c.dataLen)
	copy(out, corrected[:c.dataLen])
	return out, allPos, nil
}

func allZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// calcSyndromes returns nsym+1 syndromes with synd[0] == 0 (by convention,
// so the slice can be treated as a polynomial when needed) and
// synd[i] = msg(alpha^(i-1)) for i in [1, nsym].
func calcSyndromes(msg []byte, nsym int) []byte {
	synd := make([]byte, nsym+1)
	for i := 0; i < nsym; i++ {
		synd[i+1] = polyEval(msg, gfPow(generator, i))
	}
	return synd
}

// forneySyndromes folds known erasure positions out of the syndromes so
// that Berlekamp-Massey only has to find the locator for the remaining,
// unknown-position errors.
func forneySyndromes(synd []byte, erasePos []int, msgLen int) []byte {
	fsynd := make([]byte, len(synd)-1)
	copy(fsynd, synd[1:])
	for _, p := range erasePos {
		x := gfPow(generator, msgLen-1-p)
		for j := 0; j < len(fsynd)-1; j++ {
			fsynd[j] = gfMul(fsynd[j], x) ^ fsynd[j+1]
		}
	}
	return fsynd
}

// findErrorLocator runs Berlekamp-Massey over the Forney syndromes to find
// the error locator polynomial for the non-erasure errors, given that
// eraseCount positions have already been accounted for.
func findErrorLocator(synd []byte, nsym, eraseCount int) ([]byte, bool) {
	errLoc := []byte{1}
	oldLoc := []byte{1}
	syndShift := 0
	if len(synd) > nsym {
		syndShift = len(synd) - nsym
	}
	for i := 0; i < nsym-eraseCount; i++ {
		k := i + syndShift
		delta := synd[k]
		for j := 1; j < len(errLoc); j++ {
			delta ^= gfMul(errLoc[len(errLoc)-1-j], synd[k-j])
		}
		oldLoc = append(oldLoc, 0)
		if delta != 0 {
			if len(oldLoc) > len(errLoc) {
				newLoc := polyScale(oldLoc, delta)
				oldLoc = polyScale(errLoc, gfInverse(delta))
				errLoc = newLoc
			}
			errLoc = polyAdd(errLoc, polyScale(oldLoc, delta))
		}
	}
	// drop leading zero coefficients
	for len(errLoc) > 0 && errLoc[0] == 0 {
		errLoc = errLoc[1:]
	}
	errs := len(errLoc) - 1
	if errs < 0 {
		errs = 0
	}
	if (errs-eraseCount)*2+eraseCount > nsym {
		return nil, false
	}
	return errLoc, true
}

// findErrors runs a Chien search over all codeword positions to find the
// roots of the error locator polynomial, i.e. the positions of the
// remaining (non-erasure) errors.
func findErrors(errLoc []byte, msgLen int) ([]int, bool) {
	errs := len(errLoc) - 1
	var pos []int
	for i := 0; i < msgLen; i++ {
		if polyEval(errLoc, gfPow(generator, i)) == 0 {
			pos = append(pos, msgLen-1-i)
		}
	}
	if len(pos) != errs {
		return nil, false
	}
	return pos, true
}

// correctErrata applies the Forney algorithm to compute error/erasure
// magnitudes at the given positions and XORs them into msg.
func correctErrata(msg, synd []byte, positions []int) ([]byte, bool) {
	if len(positions) == 0 {
		return msg, true
	}
	coefPos := make([]int, len(positions))
	for i, p := range positions {
		coefPos[i] = len(msg) - 1 - p
	}

	errLoc := errataLocator(coefPos)
	errEval := errorEvaluator(reverse(synd), errLoc, len(errLoc)-1)

	x := make([]byte, len(coefPos))
	for i, cp := range coefPos {
		l := 255 - cp
		x[i] = gfPow(generator, (-l%255+255)%255)
	}

	e := make([]byte, len(msg))
	for i, xi := range x {
		xiInv := gfInverse(xi)
		var errLocPrime byte = 1
		for j, xj := range x {
			if j == i {
				continue
			}
			errLocPrime = gfMul(errLocPrime, gfAdd(1, gfMul(xiInv, xj)))
		}
		if errLocPrime == 0 {
			return nil, false
		}
		y := polyEval(errEval, xiInv)
		y = gfMul(xi, y) // fcr == 0, so gf_pow(Xi, 1-fcr) == Xi
		e[positions[i]] = gfDiv(y, errLocPrime)
	}

	return polyAdd(msg, e), true
}

func errataLocator(coefPos []int) []byte {
	loc := []byte{1}
	for _, p := range coefPos {
		loc = polyMul(loc, []byte{gfPow(generator, p), 1})
	}
	return loc
}

// errorEvaluator computes synd(x)*errLoc(x) mod x^(nsym+1).
func errorEvaluator(synd, errLoc []byte, nsym int) []byte {
	product := polyMul(synd, errLoc)
	if len(product) > nsym+1 {
		product = product[len(product)-(nsym+1):]
	}
	return product
}

func reverse(p []byte) []byte {
	out := make([]byte, len(p))
	for i, b := range p {
		out[len(p)-1-i] = b
	}
	return out
}
