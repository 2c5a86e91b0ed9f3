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

package ramgraph

import "testing"

func TestBuildRejectsBlacklistedPair(t *testing.T) {
	if _, err := Build(193, 13); err == nil {
		t.Fatalf("expected error building the known non-Ramanujan (193,13) graph")
	}
}

func TestBuildSmallGraph(t *testing.T) {
	g, err := Build(5, 13)
	if err != nil {
		t.Fatalf("Build(5,13): %v", err)
	}
	wantN := 13 * (13*13 - 1)
	if g.N != wantN {
		t.Fatalf("N = %d, want %d", g.N, wantN)
	}
	if g.Degree != 6 {
		t.Fatalf("Degree = %d, want 6", g.Degree)
	}
	if len(g.A) != wantN/2 || len(g.B) != wantN/2 {
		t.Fatalf("bipartition sizes = (%d,%d), want (%d,%d)", len(g.A), len(g.B), wantN/2, wantN/2)
	}
	for v, neighbors := range g.Adjacency {
		if len(neighbors) != g.Degree {
			t.Fatalf("vertex %d has %d neighbors, want %d", v, len(neighbors), g.Degree)
		}
	}
}

func TestEdgesOrderingAndCount(t *testing.T) {
	g, err := Build(5, 13)
	if err != nil {
		t.Fatalf("Build(5,13): %v", err)
	}
	edges := g.Edges()
	want := g.Degree * len(g.A)
	if len(edges) != want {
		t.Fatalf("len(Edges()) = %d, want %d", len(edges), want)
	}
	for _, e := range edges {
		if !g.IsLeft[e[0]] {
			t.Fatalf("edge %v has non-left first endpoint", e)
		}
		if g.IsLeft[e[1]] {
			t.Fatalf("edge %v has a left vertex as its second endpoint; graph is not bipartite", e)
		}
	}
}

func TestCacheReturnsSameGraph(t *testing.T) {
	c := NewCache()
	g1, err := c.Get(5, 13)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	g2, err := c.Get(5, 13)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g1 != g2 {
		t.Fatalf("Cache.Get returned distinct graphs for the same (p,q)")
	}
}
