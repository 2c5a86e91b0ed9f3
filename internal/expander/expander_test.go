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

package expander

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/ChaniMil/ECC-linear-time/internal/ramgraph"
)

func buildTestGraph(t *testing.T) *ramgraph.Graph {
	t.Helper()
	g, err := ramgraph.Build(5, 13)
	if err != nil {
		t.Fatalf("ramgraph.Build(5,13): %v", err)
	}
	return g
}

func randomBlocks(r *rand.Rand, n, delta int) [][]byte {
	blocks := make([][]byte, n)
	for i := range blocks {
		blocks[i] = make([]byte, delta)
		r.Read(blocks[i])
	}
	return blocks
}

func TestEncodeDecodeRoundtripNoErasures(t *testing.T) {
	g := buildTestGraph(t)
	r := rand.New(rand.NewSource(11))
	blocks := randomBlocks(r, g.N/2, g.Degree)

	encoded, err := EncodeExpander(g, blocks)
	if err != nil {
		t.Fatalf("EncodeExpander: %v", err)
	}
	decoded, erasures, err := DecodeExpander(g, encoded, nil)
	if err != nil {
		t.Fatalf("DecodeExpander: %v", err)
	}
	for i := range blocks {
		if !bytes.Equal(decoded[i], blocks[i]) {
			t.Fatalf("block %d mismatch: got %x want %x", i, decoded[i], blocks[i])
		}
		if len(erasures[i]) != 0 {
			t.Fatalf("block %d reported %d erasures with none injected", i, len(erasures[i]))
		}
	}
}

func TestDecodeTracksErasurePositions(t *testing.T) {
	g := buildTestGraph(t)
	r := rand.New(rand.NewSource(12))
	blocks := randomBlocks(r, g.N/2, g.Degree)

	encoded, err := EncodeExpander(g, blocks)
	if err != nil {
		t.Fatalf("EncodeExpander: %v", err)
	}

	erasedRightBlock := 0
	_, erasures, err := DecodeExpander(g, encoded, []int{erasedRightBlock})
	if err != nil {
		t.Fatalf("DecodeExpander: %v", err)
	}

	total := 0
	for _, e := range erasures {
		total += len(e)
	}
	if total != g.Degree {
		t.Fatalf("total tracked erasure positions = %d, want %d (one per scattered symbol)", total, g.Degree)
	}
}

func TestEncodeRejectsWrongBlockCount(t *testing.T) {
	g := buildTestGraph(t)
	if _, err := EncodeExpander(g, make([][]byte, 3)); err == nil {
		t.Fatalf("expected an error for the wrong number of blocks")
	}
}
