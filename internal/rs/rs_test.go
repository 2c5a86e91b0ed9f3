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

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeCleanRoundtrip(t *testing.T) {
	c, err := New(20, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(1))
	msg := make([]byte, 20)
	r.Read(msg)

	cw, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(cw) != 30 {
		t.Fatalf("codeword length = %d, want 30", len(cw))
	}
	if !bytes.Equal(cw[:20], msg) {
		t.Fatalf("encode is not systematic: prefix != message")
	}

	got, errata, err := c.Decode(cw, nil)
	if err != nil {
		t.Fatalf("Decode clean: %v", err)
	}
	if len(errata) != 0 {
		t.Fatalf("expected no corrections on a clean codeword, got %v", errata)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("decode mismatch: got %x want %x", got, msg)
	}
}

func TestDecodeErasuresOnly(t *testing.T) {
	c, err := New(20, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(2))
	msg := make([]byte, 20)
	r.Read(msg)
	cw, _ := c.Encode(msg)

	erased := []int{0, 3, 7, 12, 19, 21, 25, 29, 5, 15} // 10 erasures, the redundancy bound
	for _, p := range erased {
		cw[p] = 0
	}

	got, _, err := c.Decode(cw, erased)
	if err != nil {
		t.Fatalf("Decode with %d erasures: %v", len(erased), err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("decode mismatch after erasures: got %x want %x", got, msg)
	}
}

func TestDecodeErrorsOnly(t *testing.T) {
	c, err := New(20, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(3))
	msg := make([]byte, 20)
	r.Read(msg)
	cw, _ := c.Encode(msg)

	// Corrupt 5 (== redundancy/2) positions, the maximum unknown-position
	// errors this code can correct.
	positions := []int{1, 4, 9, 14, 22}
	for _, p := range positions {
		cw[p] ^= 0xAA
	}

	got, errata, err := c.Decode(cw, nil)
	if err != nil {
		t.Fatalf("Decode with %d errors: %v", len(positions), err)
	}
	if len(errata) != len(positions) {
		t.Fatalf("errata count = %d, want %d", len(errata), len(positions))
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("decode mismatch after errors: got %x want %x", got, msg)
	}
}

func TestDecodeTooManyErasures(t *testing.T) {
	c, _ := New(10, 4)
	cw := make([]byte, 14)
	_, _, err := c.Decode(cw, []int{0, 1, 2, 3, 4})
	if err != ErrTooManyErasures {
		t.Fatalf("expected ErrTooManyErasures, got %v", err)
	}
}

func TestEncodeWrongLength(t *testing.T) {
	c, _ := New(10, 4)
	if _, err := c.Encode(make([]byte, 9)); err == nil {
		t.Fatalf("expected error for wrong-length message")
	}
}

func TestZeroRedundancyIsIdentity(t *testing.T) {
	c, err := New(5, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	msg := []byte{1, 2, 3, 4, 5}
	cw, err := c.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(cw, msg) {
		t.Fatalf("zero-redundancy encode should be identity")
	}
	got, _, err := c.Decode(cw, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("zero-redundancy decode should be identity")
	}
}
