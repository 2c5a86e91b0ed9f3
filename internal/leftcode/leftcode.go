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

// Package leftcode implements the systematic left (Ramanujan) code: every
// symbol on an edge of the graph is covered twice, once by the RS code of
// each of its two endpoints, and each endpoint's own redundancy is in turn
// protected by a second RS layer so it survives the same channel as the
// rest of the codeword.
package leftcode

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ChaniMil/ECC-linear-time/internal/ramgraph"
	"github.com/ChaniMil/ECC-linear-time/internal/rs"
)

// ErrWrongLength is returned when the input word's length doesn't match
// the graph's edge count, or a check-symbol table doesn't match its vertex
// count.
var ErrWrongLength = errors.New("leftcode: wrong input length")

// NodewordLength is the number of redundancy bytes written per vertex:
// the combined width of both RS layers protecting that vertex's symbols.
func NodewordLength(d int, gammaTag float64) int {
	return int(math.Round(4 * float64(d) * gammaTag))
}

// RSC1Redundancy is the inner RS layer's redundancy, covering a vertex's d
// edge symbols directly.
func RSC1Redundancy(d int, gammaTag float64) int {
	return int(math.Round(gammaTag*float64(d) + 0.5))
}

// RSC2Redundancy is the outer RS layer's redundancy, covering the inner
// layer's own parity bytes so they survive corruption too.
func RSC2Redundancy(d int, gammaTag float64) int {
	return NodewordLength(d, gammaTag) - RSC1Redundancy(d, gammaTag)
}

// incidence returns the graph's M edges in canonical order together with,
// for every vertex, the indices (into that edge list) of its d incident
// edges, in the order they were visited while building the edge list. The
// encoder and decoder both derive their per-vertex symbol order from this
// single function so the two sides can never disagree on it.
func incidence(g *ramgraph.Graph) ([][2]int32, [][]int32) {
	edges := g.Edges()
	ev := make([][]int32, g.N)
	counters := make([]int32, g.N)
	for v := range ev {
		ev[v] = make([]int32, g.Degree)
	}
	for idx, e := range edges {
		a, b := e[0], e[1]
		ev[a][counters[a]] = int32(idx)
		counters[a]++
		ev[b][counters[b]] = int32(idx)
		counters[b]++
	}
	return edges, ev
}

// EncodeRamanujan places the symbols of word on the graph's edges, then for
// every vertex encodes its d incident symbols with a systematic
// rsc1_redundancy-byte RS code, and encodes that RS layer's own parity
// bytes again with a second RS layer, so that corruption of a vertex's
// redundancy doesn't defeat later correction attempts on its neighbors.
//
// The returned slice is word, unchanged, followed by g.N consecutive
// NodewordLength(d, gammaTag)-byte chunks, one per vertex in ascending
// vertex id order.
func EncodeRamanujan(g *ramgraph.Graph, word []byte, gammaTag float64) ([]byte, error) {
	m := g.NumEdges()
	if len(word) != m {
		return nil, errors.Wrapf(ErrWrongLength, "word has %d bytes, graph has %d edges", len(word), m)
	}
	d := g.Degree
	nodewordLength := NodewordLength(d, gammaTag)
	rsc1Redundancy := RSC1Redundancy(d, gammaTag)
	rsc2Redundancy := RSC2Redundancy(d, gammaTag)

	rsc1, err := rs.New(d, rsc1Redundancy)
	if err != nil {
		return nil, errors.Wrap(err, "leftcode: building inner RS code")
	}
	rsc2, err := rs.New(rsc1Redundancy, rsc2Redundancy)
	if err != nil {
		return nil, errors.Wrap(err, "leftcode: building outer RS code")
	}

	_, ev := incidence(g)

	out := make([]byte, m+g.N*nodewordLength)
	copy(out, word)

	vertexSymbols := make([]byte, d)
	for v := 0; v < g.N; v++ {
		for slot, edgeIdx := range ev[v] {
			vertexSymbols[slot] = word[edgeIdx]
		}
		inner, err := rsc1.Encode(vertexSymbols)
		if err != nil {
			return nil, errors.Wrapf(err, "leftcode: encoding vertex %d", v)
		}
		outer, err := rsc2.Encode(inner[d:])
		if err != nil {
			return nil, errors.Wrapf(err, "leftcode: encoding vertex %d redundancy", v)
		}
		copy(out[m+nodewordLength*v:m+nodewordLength*(v+1)], outer)
	}
	return out, nil
}

// DecodeRamanujan recovers word from its (possibly corrupted) edge symbols
// and per-vertex check-symbol chunks. It runs the iterative two-phase
// decode: a first pass over side A, then side B, then alternating
// propagation through neighbors of every vertex that newly decoded
// successfully, until no further progress is made.
//
// It returns the recovered word, and ok=true only if every vertex finished
// and every check-symbol chunk decoded cleanly.
func DecodeRamanujan(g *ramgraph.Graph, word []byte, checkSymbols [][]byte, gammaTag float64) ([]byte, bool, error) {
	m := g.NumEdges()
	if len(word) != m {
		return nil, false, errors.Wrapf(ErrWrongLength, "word has %d bytes, graph has %d edges", len(word), m)
	}
	if len(checkSymbols) != g.N {
		return nil, false, errors.Wrapf(ErrWrongLength, "got %d check-symbol chunks, graph has %d vertices", len(checkSymbols), g.N)
	}
	d := g.Degree
	rsc1Redundancy := RSC1Redundancy(d, gammaTag)
	rsc2Redundancy := RSC2Redundancy(d, gammaTag)

	rsc1, err := rs.New(d, rsc1Redundancy)
	if err != nil {
		return nil, false, errors.Wrap(err, "leftcode: building inner RS code")
	}
	rsc2, err := rs.New(rsc1Redundancy, rsc2Redundancy)
	if err != nil {
		return nil, false, errors.Wrap(err, "leftcode: building outer RS code")
	}

	word = append([]byte(nil), word...)

	finished := make([]bool, g.N)
	successFlag := true
	decodedCheck := make([][]byte, g.N)
	for v, cs := range checkSymbols {
		data, _, err := rsc2.Decode(cs, nil)
		if err != nil {
			successFlag = false
			finished[v] = true
			continue
		}
		decodedCheck[v] = data
	}

	_, ev := incidence(g)

	wordV := make([]byte, d+rsc1Redundancy)
	attempt := func(x int32) bool {
		if finished[x] || decodedCheck[x] == nil {
			return false
		}
		for slot, edgeIdx := range ev[x] {
			wordV[slot] = word[edgeIdx]
		}
		copy(wordV[d:], decodedCheck[x])
		rmes, errata, err := rsc1.Decode(wordV, nil)
		if err != nil {
			return false
		}
		if len(errata) > 0 && errata[0] >= d {
			return false
		}
		for slot, edgeIdx := range ev[x] {
			word[edgeIdx] = rmes[slot]
		}
		finished[x] = true
		return true
	}

	queue := append([]int32(nil), g.A...)
	firstPass := true
	for len(queue) > 0 {
		var next []int32
		nextSeen := make(map[int32]bool)
		for _, x := range queue {
			if !attempt(x) {
				continue
			}
			for _, nb := range g.Adjacency[x] {
				if !nextSeen[nb] {
					nextSeen[nb] = true
					next = append(next, nb)
				}
			}
		}
		if firstPass {
			queue = append([]int32(nil), g.B...)
			firstPass = false
		} else {
			queue = next
		}
	}

	allFinished := true
	for _, f := range finished {
		if !f {
			allFinished = false
			break
		}
	}
	return word, allFinished && successFlag, nil
}
