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

package stats

import (
	"sync/atomic"
	"testing"
)

func TestHeaderAndToSliceLineUp(t *testing.T) {
	s := NewSnmp()
	atomic.AddUint64(&s.BlocksEncoded, 3)
	atomic.AddUint64(&s.ErasuresRecovered, 5)

	header := s.Header()
	values := s.ToSlice()
	if len(header) != len(values) {
		t.Fatalf("Header has %d columns, ToSlice has %d", len(header), len(values))
	}
	if values[0] != "3" {
		t.Fatalf("BlocksEncoded column = %q, want %q", values[0], "3")
	}
}

func TestResetZeroesCounters(t *testing.T) {
	s := NewSnmp()
	atomic.AddUint64(&s.DecodeAttempts, 10)
	s.Reset()
	if atomic.LoadUint64(&s.DecodeAttempts) != 0 {
		t.Fatalf("DecodeAttempts survived Reset")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := NewSnmp()
	atomic.AddUint64(&s.BlocksDecoded, 1)
	snap := s.Copy()
	atomic.AddUint64(&s.BlocksDecoded, 41)
	if snap.BlocksDecoded != 1 {
		t.Fatalf("Copy() was not an independent snapshot")
	}
}
