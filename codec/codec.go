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

// Package codec drives the full pipeline: solve parameters, build the two
// Ramanujan graphs they call for, and run the three-layer encode/decode
// (left code, per-block outer RS, expander interleave) over them.
package codec

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ChaniMil/ECC-linear-time/internal/expander"
	"github.com/ChaniMil/ECC-linear-time/internal/leftcode"
	"github.com/ChaniMil/ECC-linear-time/internal/params"
	"github.com/ChaniMil/ECC-linear-time/internal/ramgraph"
	"github.com/ChaniMil/ECC-linear-time/internal/rs"
	"github.com/ChaniMil/ECC-linear-time/internal/stats"
)

// ErrParamsNotCommitted is returned by Encode/Decode when Choose (or
// constructing with k > 0) hasn't yet picked a parameter tuple.
var ErrParamsNotCommitted = errors.New("codec: no parameter tuple committed; call Choose first")

// ErrMessageTooLong is returned by Encode when the message exceeds the
// committed tuple's code dimension k.
var ErrMessageTooLong = errors.New("codec: message longer than code dimension k")

// Codeword is a systematic encoding: n blocks of Delta bytes each, in
// interleaved (expander) order.
type Codeword struct {
	Delta  int
	Blocks [][]byte
}

// Codec solves for, and then runs, one parameter tuple's encode/decode
// pipeline. The zero value is not usable; construct with NewCodec.
type Codec struct {
	epsilon, r         float64
	epsDist, rDist     float64
	k                  int
	primeLimit, maxK   int
	cache              *ramgraph.Cache
	stats              *stats.Snmp

	committed bool
	tuple     params.Tuple
	leftGraph *ramgraph.Graph
	expGraph  *ramgraph.Graph
}

// NewCodec prepares a solver around (epsilon, r) with the given
// tolerances. If k > 0, it immediately solves by code dimension instead and
// commits to the result, building both graphs.
func NewCodec(epsilon, r float64, k int, epsDist, rDist float64, primeLimit, maxK int) (*Codec, error) {
	c := &Codec{
		epsilon: epsilon, r: r,
		epsDist: epsDist, rDist: rDist,
		k:          k,
		primeLimit: primeLimit, maxK: maxK,
		cache: ramgraph.NewCache(),
		stats: stats.NewSnmp(),
	}
	if k > 0 {
		tup, err := params.SolveByDimension(k, primeLimit)
		if err != nil {
			return nil, errors.Wrap(err, "codec: solving by code dimension")
		}
		if err := c.commit(tup); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ParameterOptions returns every candidate tuple the solver finds for this
// Codec's targets: a single best-fit tuple if it was constructed with
// k > 0, or every tuple matching (r, epsilon) within tolerance otherwise.
func (c *Codec) ParameterOptions() []params.Tuple {
	if c.k > 0 {
		tup, err := params.SolveByDimension(c.k, c.primeLimit)
		if err != nil {
			return nil
		}
		return []params.Tuple{tup}
	}
	return params.SolveByTarget(c.r, c.epsilon, c.rDist, c.epsDist, c.primeLimit, c.maxK)
}

// Choose commits the Codec to the index-th candidate from ParameterOptions,
// building both graphs it needs.
func (c *Codec) Choose(index int) error {
	opts := c.ParameterOptions()
	if index < 0 || index >= len(opts) {
		return errors.Errorf("codec: candidate index %d out of range [0,%d)", index, len(opts))
	}
	return c.commit(opts[index])
}

func (c *Codec) commit(tup params.Tuple) error {
	leftGraph, err := c.cache.Get(tup.Pr, tup.Qr)
	if err != nil {
		return errors.Wrap(err, "codec: building left-code graph")
	}
	expGraph, err := c.cache.Get(tup.Pe, tup.Qe)
	if err != nil {
		return errors.Wrap(err, "codec: building expander graph")
	}
	c.tuple = tup
	c.leftGraph = leftGraph
	c.expGraph = expGraph
	c.committed = true
	return nil
}

// Tuple returns the committed parameter tuple. Only valid after Choose (or
// a k > 0 construction) has succeeded.
func (c *Codec) Tuple() (params.Tuple, bool) {
	return c.tuple, c.committed
}

// Stats returns the Codec's activity counters.
func (c *Codec) Stats() *stats.Snmp {
	return c.stats
}

// gammaTag is the inner-RS redundancy rate, always an eighth of the
// block-level gamma (= epsilon/4); see internal/leftcode and spec section 9
// for why these two must never be confused.
func (c *Codec) gammaTag() float64 {
	return c.tuple.Epsilon / 32
}

func (c *Codec) outerRedundancy() int {
	return c.expGraph.Degree - c.tuple.B
}

// Encode pads message with zero bytes up to k, runs it through the left
// code, splits the result into b-byte blocks (padding the final block and
// zero-filling any blocks beyond it), protects each block with an outer RS
// code, and scatters the protected blocks across the expander graph.
func (c *Codec) Encode(message []byte) (Codeword, error) {
	if !c.committed {
		return Codeword{}, ErrParamsNotCommitted
	}
	k := c.leftGraph.NumEdges()
	if len(message) > k {
		return Codeword{}, ErrMessageTooLong
	}

	word := make([]byte, k)
	copy(word, message)

	encoded, err := leftcode.EncodeRamanujan(c.leftGraph, word, c.gammaTag())
	if err != nil {
		return Codeword{}, errors.Wrap(err, "codec: left-code encode")
	}

	n := c.expGraph.N / 2
	b := c.tuple.B
	blocks := splitIntoBlocks(encoded, n, b)

	rsc3, err := rs.New(b, c.outerRedundancy())
	if err != nil {
		return Codeword{}, errors.Wrap(err, "codec: building outer RS code")
	}
	coded := make([][]byte, n)
	for i, bl := range blocks {
		cw, err := rsc3.Encode(bl)
		if err != nil {
			return Codeword{}, errors.Wrapf(err, "codec: outer-RS encoding block %d", i)
		}
		coded[i] = cw
	}

	final, err := expander.EncodeExpander(c.expGraph, coded)
	if err != nil {
		return Codeword{}, errors.Wrap(err, "codec: expander encode")
	}

	atomic.AddUint64(&c.stats.BlocksEncoded, uint64(n))
	return Codeword{Delta: c.expGraph.Degree, Blocks: final}, nil
}

// splitIntoBlocks mirrors the reference splitting: it slices data into n
// chunks of b bytes, pads the first short chunk it finds up to b, and
// fills every chunk after that with zeros.
func splitIntoBlocks(data []byte, n, b int) [][]byte {
	blocks := make([][]byte, n)
	idx := 0
	for i := 0; i < n; i++ {
		start, end := b*i, b*(i+1)
		var chunk []byte
		switch {
		case start >= len(data):
			chunk = nil
		case end > len(data):
			chunk = data[start:]
		default:
			chunk = data[start:end]
		}
		blocks[i] = chunk
		idx++
		if len(chunk) != b {
			break
		}
	}
	if idx >= 1 {
		padded := make([]byte, b)
		copy(padded, blocks[idx-1])
		blocks[idx-1] = padded
	}
	empty := make([]byte, b)
	for i := idx; i < n; i++ {
		blocks[i] = empty
	}
	return blocks
}

// Decode inverts Encode: it untangles the expander interleave, corrects
// each block with the outer RS code (falling back to a zero-filled erasure
// mask when a block is uncorrectable), feeds the reassembled word through
// the iterative left-code decoder, and returns the first targetLength bytes
// (or the full k-byte word if targetLength <= 0). ok is true only if every
// layer reports success.
func (c *Codec) Decode(cw Codeword, erasures []int, targetLength int) ([]byte, bool, error) {
	if !c.committed {
		return nil, false, ErrParamsNotCommitted
	}
	atomic.AddUint64(&c.stats.DecodeAttempts, 1)

	partial, newErasures, err := expander.DecodeExpander(c.expGraph, cw.Blocks, erasures)
	if err != nil {
		return nil, false, errors.Wrap(err, "codec: expander decode")
	}

	b := c.tuple.B
	rsc3, err := rs.New(b, c.outerRedundancy())
	if err != nil {
		return nil, false, errors.Wrap(err, "codec: building outer RS code")
	}

	n := len(partial)
	word := make([]byte, b*n)
	outerOK := true
	for i, block := range partial {
		data, _, err := rsc3.Decode(block, newErasures[i])
		if err != nil {
			outerOK = false
			atomic.AddUint64(&c.stats.OuterRSFailures, 1)
			fallback := append([]byte(nil), block[:b]...)
			for _, ep := range newErasures[i] {
				if ep < b {
					fallback[ep] = 0
				}
			}
			data = fallback
		}
		copy(word[b*i:b*(i+1)], data)
	}

	m := c.leftGraph.NumEdges()
	if len(word) < m {
		return nil, false, errors.Errorf("codec: reassembled word too short: got %d bytes, need at least %d", len(word), m)
	}
	nodewordLength := leftcode.NodewordLength(c.leftGraph.Degree, c.gammaTag())
	checkSymbols := make([][]byte, c.leftGraph.N)
	for v := 0; v < c.leftGraph.N; v++ {
		start := m + nodewordLength*v
		end := m + nodewordLength*(v+1)
		if end > len(word) {
			return nil, false, errors.Errorf("codec: reassembled word too short for vertex %d check symbols", v)
		}
		checkSymbols[v] = word[start:end]
	}

	decoded, leftOK, err := leftcode.DecodeRamanujan(c.leftGraph, word[:m], checkSymbols, c.gammaTag())
	if err != nil {
		return nil, false, errors.Wrap(err, "codec: left-code decode")
	}

	ok := outerOK && leftOK
	atomic.AddUint64(&c.stats.BlocksDecoded, uint64(n))
	if ok {
		atomic.AddUint64(&c.stats.DecodeSuccesses, 1)
	}

	if targetLength > 0 && targetLength < len(decoded) {
		decoded = decoded[:targetLength]
	}
	return decoded, ok, nil
}

// CorrectionCapacity returns the remaining error/erasure budget given
// errors errors and erasures erasures already assumed present, under the
// mixed-tolerance bound s + 2e <= (1 - r - epsilon) * n.
func (c *Codec) CorrectionCapacity(errors_, erasures int) (maxErrors, maxErasures int) {
	if !c.committed {
		return 0, 0
	}
	n := c.expGraph.N / 2
	bound := (1 - c.tuple.R - c.tuple.Epsilon) * float64(n)
	maxErrors = int(math.Floor((bound - float64(erasures)) / 2))
	if maxErrors < 0 {
		maxErrors = 0
	}
	maxErasures = int(math.Floor(bound - 2*float64(errors_)))
	if maxErasures < 0 {
		maxErasures = 0
	}
	return maxErrors, maxErasures
}

// Summary reports the committed tuple's rate, distance, and alphabet sizes
// for human consumption, folding back in original_source/main_code.py's
// print_info diagnostic.
func (c *Codec) Summary() string {
	if !c.committed {
		return "codec: no parameter tuple committed"
	}
	t := c.tuple
	n := c.expGraph.N / 2
	return fmt.Sprintf(
		"Rate = %.6f\nEpsilon = %.6f\nCode can correct: %.2f%% of errors\n"+
			"Alphabet size of message: 2^8\nAlphabet size of code: 2^%d\n"+
			"Message length: %d\nCode length: %d\n"+
			"Ramanujan graph: %d nodes, %d edges\nExpander graph: %d nodes, %d edges",
		t.R, t.Epsilon, (1-t.R-t.Epsilon)*100,
		8*c.expGraph.Degree,
		t.K, n,
		c.leftGraph.N, c.leftGraph.NumEdges(),
		c.expGraph.N, c.expGraph.NumEdges(),
	)
}
