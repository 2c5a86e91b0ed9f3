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

// Package ramgraph builds the explicit LPS Ramanujan Cayley graph over
// PGL2(F_q), the expander structure both the left code and the interleaver
// are built on.
package ramgraph

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/ChaniMil/ECC-linear-time/internal/field"
)

// ErrPreconditionViolated is returned when (p, q) is not an admissible
// generator/field pair, or when the resulting graph fails the regularity
// check after construction.
var ErrPreconditionViolated = errors.New("ramgraph: precondition violated")

// Graph is a bipartite Delta-regular graph on N vertices, represented as a
// dense adjacency table. It is built once by Build and never mutated
// afterward.
type Graph struct {
	P, Q   int
	Degree int
	N      int
	// Adjacency[v] lists v's Degree neighbor ids, in the order edges were
	// inserted at v. Both endpoints of an edge agree on where it lands in
	// each other's slot list only insofar as insertion order is what both
	// the encoder and decoder key off of (see internal/leftcode).
	Adjacency [][]int32
	IsLeft    []bool
	A, B      []int32 // canonical per-side vertex ids, ascending
}

// NumEdges is the number of distinct undirected edges, Degree*N/2.
func (g *Graph) NumEdges() int {
	return g.Degree * len(g.A)
}

// Edges returns the M = Degree*|A| edges in the canonical order the left
// code depends on: for each neighbor slot j, for each left vertex i (in
// ascending id order), the edge (i, Adjacency[i][j]). This mirrors the
// reference construction's Graph.edges() exactly; both the encoder and the
// decoder must walk edges in this order for their symbol placements to
// agree.
func (g *Graph) Edges() [][2]int32 {
	edges := make([][2]int32, 0, g.NumEdges())
	for j := 0; j < g.Degree; j++ {
		for _, i := range g.A {
			edges = append(edges, [2]int32{i, g.Adjacency[i][j]})
		}
	}
	return edges
}

// gfTables holds the precomputed multiplication and inverse tables over
// F_q used throughout the construction.
type gfTables struct {
	q    int
	mult [][]int
	inv  []int
}

func buildGF(q int) *gfTables {
	mult := make([][]int, q)
	for i := 0; i < q; i++ {
		mult[i] = make([]int, q)
		for j := 0; j < q; j++ {
			mult[i][j] = (i * j) % q
		}
	}
	inv := make([]int, q)
	for a := 1; a < q; a++ {
		for b := 1; b < q; b++ {
			if mult[a][b] == 1 {
				inv[a] = b
				break
			}
		}
	}
	return &gfTables{q: q, mult: mult, inv: inv}
}

func mod(x, q int) int {
	x %= q
	if x < 0 {
		x += q
	}
	return x
}

// findI returns i in F_q with i^2 = -1 (mod q); it exists because q = 1 mod 4.
func findI(q int) int {
	for j := 0; j < q; j++ {
		if (j*j)%q == q-1 {
			return j
		}
	}
	panic("ramgraph: no sqrt(-1) found mod q; q must be 1 mod 4")
}

// generateElements enumerates the p+1 integer quadruples (a0,a1,a2,a3) with
// a0^2+a1^2+a2^2+a3^2 = p, a0 odd and positive, a1,a2,a3 even (Jacobi's
// four-square theorem guarantees exactly p+1 of them for prime p).
func generateElements(p int) [][4]int {
	sqrtP := int(math.Sqrt(float64(p)))
	sqrtPEven := (sqrtP / 2) * 2
	sqrtPOdd := sqrtPEven + 1

	var elements [][4]int
	for a0 := 1; a0 <= sqrtPOdd; a0 += 2 {
		s0 := a0 * a0
		for a1 := -sqrtPEven; a1 <= sqrtPEven; a1 += 2 {
			s1 := s0 + a1*a1
			for a2 := -sqrtPEven; a2 <= sqrtPEven; a2 += 2 {
				s2 := s1 + a2*a2
				for a3 := -sqrtPEven; a3 <= sqrtPEven; a3 += 2 {
					if s2+a3*a3 == p {
						elements = append(elements, [4]int{a0, a1, a2, a3})
					}
				}
			}
		}
	}
	return elements
}

// findGenerators maps each quaternion quadruple to its 2x2 generator matrix
// over F_q via i (a square root of -1 mod q), producing the p+1 generators
// S(p).
func findGenerators(i, q int, elements [][4]int) [][4]int {
	gens := make([][4]int, len(elements))
	for k, e := range elements {
		a0, a1, a2, a3 := e[0], e[1], e[2], e[3]
		gens[k] = [4]int{
			mod(a0+i*a1, q),
			mod(a2+i*a3, q),
			mod(-a2+i*a3, q),
			mod(a0-i*a1, q),
		}
	}
	return gens
}

// matMul multiplies two 2x2 matrices over F_q, [[a0,a1],[a2,a3]].
func matMul(a, b [4]int, gf *gfTables) [4]int {
	q := gf.q
	m := gf.mult
	c0 := m[a[0]][b[0]] + m[a[1]][b[2]]
	c1 := m[a[0]][b[1]] + m[a[1]][b[3]]
	c2 := m[a[2]][b[0]] + m[a[3]][b[2]]
	c3 := m[a[2]][b[1]] + m[a[3]][b[3]]
	if c0 >= q {
		c0 -= q
	}
	if c1 >= q {
		c1 -= q
	}
	if c2 >= q {
		c2 -= q
	}
	if c3 >= q {
		c3 -= q
	}
	return [4]int{c0, c1, c2, c3}
}

// matrixToInt packs a canonical PGL2(F_q) representative into a unique
// integer so it can be looked up by matrix multiplication results.
func matrixToInt(a1, a2, a3, a4, q int) int {
	if a1 == 0 {
		return a4*(q-1) + (a3 - 1)
	}
	return a2*q*q + a3*q + a4 + (q*q - q)
}

// enumeratePGL yields every canonical representative of PGL2(F_q) exactly
// once, in the construction's canonical dense-index order.
func enumeratePGL(q int, mult [][]int, yield func(a1, a2, a3, a4 int)) {
	for y2 := 0; y2 < q; y2++ {
		for y3 := 1; y3 < q; y3++ {
			yield(0, 1, y3, y2)
			prod := mult[y2][y3]
			for y4 := 0; y4 < q; y4++ {
				if y4 != prod {
					yield(1, y2, y3, y4)
				}
			}
		}
		for y4 := 1; y4 < q; y4++ {
			yield(1, y2, 0, y4)
		}
	}
}

// canonicalize renormalizes a (possibly non-canonical) matrix produced by
// multiplication into PGL2(F_q) canonical form: the first non-zero entry of
// the top row (a, b) scaled to 1, matching the representatives enumeratePGL
// yields.
func canonicalize(m [4]int, gf *gfTables) [4]int {
	if m[0] == 0 {
		invC := gf.inv[m[1]]
		return [4]int{0, 1, gf.mult[m[2]][invC], gf.mult[m[3]][invC]}
	}
	invA := gf.inv[m[0]]
	return [4]int{1, gf.mult[m[1]][invA], gf.mult[m[2]][invA], gf.mult[m[3]][invA]}
}

// Build constructs the (p+1)-regular LPS Ramanujan Cayley graph over
// PGL2(F_q). It returns ErrPreconditionViolated if (p, q) is not an
// admissible pair (Legendre symbol, blacklist) or if the resulting graph
// fails regularity validation.
func Build(p, q int) (*Graph, error) {
	if !field.IsAdmissiblePair(p, q) {
		return nil, errors.Wrapf(ErrPreconditionViolated, "(p,q)=(%d,%d): Legendre(p,q) != -1 or blacklisted", p, q)
	}

	gf := buildGF(q)
	degree := p + 1
	n := q * (q*q - 1)

	i0 := findI(q)
	elements := generateElements(p)
	generators := findGenerators(i0, q, elements)
	if len(generators) != degree {
		return nil, errors.Wrapf(ErrPreconditionViolated, "expected %d generators for p=%d, got %d", degree, p, len(generators))
	}

	reprs := make([][4]int, 0, n)
	realIndices := make(map[int]int32, n)
	idx := int32(0)
	enumeratePGL(q, gf.mult, func(a1, a2, a3, a4 int) {
		reprs = append(reprs, [4]int{a1, a2, a3, a4})
		realIndices[matrixToInt(a1, a2, a3, a4, q)] = idx
		idx++
	})
	if len(reprs) != n {
		return nil, errors.Wrapf(ErrPreconditionViolated, "PGL2(F_%d) enumeration produced %d elements, want %d", q, len(reprs), n)
	}

	quadRes := make([]bool, q)
	for i := 1; i < q; i++ {
		quadRes[gf.mult[i][i]] = true
	}

	isLeft := make([]bool, n)
	for id, y := range reprs {
		det := mod(gf.mult[y[3]][y[0]]-gf.mult[y[1]][y[2]], q)
		isLeft[id] = quadRes[det]
	}

	adjacency := make([][]int32, n)
	for i := range adjacency {
		adjacency[i] = make([]int32, degree)
	}
	slot := make([]int32, n)
	addEdge := func(a, b int32) {
		adjacency[a][slot[a]] = b
		adjacency[b][slot[b]] = a
		slot[a]++
		slot[b]++
	}

	for id, y := range reprs {
		det := mod(gf.mult[y[3]][y[0]]-gf.mult[y[1]][y[2]], q)
		if quadRes[det] {
			// Every edge has exactly one quad-residue and one
			// non-residue endpoint; generating only from the
			// non-residue side visits each edge exactly once.
			continue
		}
		for _, s := range generators {
			x := matMul(s, y, gf)
			x = canonicalize(x, gf)
			xid, ok := realIndices[matrixToInt(x[0], x[1], x[2], x[3], q)]
			if !ok {
				return nil, errors.Wrapf(ErrPreconditionViolated, "generator image for vertex %d has no PGL2 representative", id)
			}
			addEdge(xid, int32(id))
		}
	}

	g := &Graph{
		P: p, Q: q,
		Degree:    degree,
		N:         n,
		Adjacency: adjacency,
		IsLeft:    isLeft,
	}
	for id := 0; id < n; id++ {
		if isLeft[id] {
			g.A = append(g.A, int32(id))
		} else {
			g.B = append(g.B, int32(id))
		}
	}
	if len(g.A) != n/2 || len(g.B) != n/2 {
		return nil, errors.Wrapf(ErrPreconditionViolated, "bipartition unbalanced: |A|=%d |B|=%d, want %d each", len(g.A), len(g.B), n/2)
	}

	if err := validateRegularity(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validateRegularity checks that every vertex ended up with exactly Degree
// distinct neighbors, per spec.md 4.B.5: "do not retry silently".
func validateRegularity(g *Graph) error {
	seen := make(map[int32]struct{}, g.Degree)
	for v, neighbors := range g.Adjacency {
		for k := range seen {
			delete(seen, k)
		}
		for _, nb := range neighbors {
			if _, dup := seen[nb]; dup {
				return errors.Wrapf(ErrPreconditionViolated, "vertex %d has duplicate neighbor %d: not a Ramanujan graph for these parameters", v, nb)
			}
			seen[nb] = struct{}{}
		}
		if len(seen) != g.Degree {
			return errors.Wrapf(ErrPreconditionViolated, "vertex %d has %d distinct neighbors, want %d: not a Ramanujan graph for these parameters", v, len(seen), g.Degree)
		}
	}
	return nil
}

// Cache memoizes graphs by (p, q) so repeated encode/decode calls reuse the
// same, immutable, already-validated Graph, per spec.md 5/9: "Graphs should
// be built at most once per (p,q) and shared."
type Cache struct {
	mu sync.RWMutex
	m  map[[2]int]*Graph
}

// NewCache returns an empty graph cache.
func NewCache() *Cache {
	return &Cache{m: make(map[[2]int]*Graph)}
}

// Get returns the cached graph for (p, q), building and caching it first if
// necessary.
func (c *Cache) Get(p, q int) (*Graph, error) {
	key := [2]int{p, q}

	c.mu.RLock()
	g, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return g, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.m[key]; ok {
		return g, nil
	}
	g, err := Build(p, q)
	if err != nil {
		return nil, err
	}
	c.m[key] = g
	return g, nil
}
