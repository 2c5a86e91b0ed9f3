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

// Package expander scatters per-block symbols across a second Ramanujan
// graph so that a burst of corrupted or erased blocks lands as isolated,
// individually correctable symbols on the other side rather than as a
// concentrated failure.
package expander

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/ChaniMil/ECC-linear-time/internal/ramgraph"
)

// ErrWrongLength is returned when the block slice doesn't match one of the
// graph's two side sizes, or a block isn't Delta bytes wide.
var ErrWrongLength = errors.New("expander: wrong input length")

// sortedNeighbors returns v's neighbor ids in ascending order. The
// interleaver keys its symbol placement off this sorted order rather than
// adjacency-insertion order (unlike internal/leftcode, which uses insertion
// order); the two constructions are independent and each is internally
// consistent between its own encode and decode halves.
func sortedNeighbors(g *ramgraph.Graph, v int32) []int32 {
	neighbors := append([]int32(nil), g.Adjacency[v]...)
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// EncodeExpander takes one block per left-side vertex and scatters their
// symbols across the right-side vertices, delta symbols to a block,
// returning the n right-side blocks in ascending right-vertex order.
func EncodeExpander(g *ramgraph.Graph, blocks [][]byte) ([][]byte, error) {
	delta := g.Degree
	half := g.N / 2
	if len(blocks) != half {
		return nil, errors.Wrapf(ErrWrongLength, "got %d blocks, want %d (one per left vertex)", len(blocks), half)
	}
	for i, b := range blocks {
		if len(b) != delta {
			return nil, errors.Wrapf(ErrWrongLength, "block %d has %d bytes, want %d", i, len(b), delta)
		}
	}

	mid := make([][]byte, g.N)
	for v := range mid {
		mid[v] = make([]byte, delta)
	}
	counters := make([]int, g.N)

	for i := 0; i < half; i++ {
		neighbors := sortedNeighbors(g, g.A[i])
		for j := 0; j < delta; j++ {
			nb := neighbors[j]
			k := counters[nb]
			mid[nb][k] = blocks[i][j]
			counters[nb]++
		}
	}

	out := make([][]byte, half)
	for i, r := range g.B {
		out[i] = mid[r]
	}
	return out, nil
}

// DecodeExpander inverts EncodeExpander: given the n right-side blocks (in
// ascending right-vertex order) and the set of right-side block indices
// known to be erased, it returns the n left-side blocks and, for each, the
// positions within it that trace back to an erased right-side block.
func DecodeExpander(g *ramgraph.Graph, newSymbols [][]byte, erasures []int) ([][]byte, [][]int, error) {
	delta := g.Degree
	half := g.N / 2
	if len(newSymbols) != half {
		return nil, nil, errors.Wrapf(ErrWrongLength, "got %d blocks, want %d (one per right vertex)", len(newSymbols), half)
	}
	for i, b := range newSymbols {
		if len(b) != delta {
			return nil, nil, errors.Wrapf(ErrWrongLength, "block %d has %d bytes, want %d", i, len(b), delta)
		}
	}

	erased := make([]bool, half)
	for _, s := range erasures {
		erased[s] = true
	}

	newErasures := make([][]int, g.N)
	blocks := make([][]byte, g.N)
	for v := range blocks {
		blocks[v] = make([]byte, delta)
	}
	counters := make([]int, g.N)

	for i := 0; i < half; i++ {
		neighbors := sortedNeighbors(g, g.B[i])
		for j := 0; j < delta; j++ {
			nb := neighbors[j]
			k := counters[nb]
			blocks[nb][k] = newSymbols[i][j]
			counters[nb]++
			if erased[i] {
				// Prepended, matching insertAtBegin: positions end up
				// in descending discovery order within each vertex.
				newErasures[nb] = append([]int{k}, newErasures[nb]...)
			}
		}
	}

	originalWord := make([][]byte, half)
	listNewErasures := make([][]int, half)
	for i := 0; i < half; i++ {
		originalWord[i] = blocks[g.A[i]]
		listNewErasures[i] = newErasures[g.A[i]]
	}
	return originalWord, listNewErasures, nil
}
