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

// Package stats tracks running counters for codec activity, in the style
// of kcp-go's Snmp/DefaultSnmp: a flat struct of atomically-updated
// counters with Header/ToSlice for CSV logging.
package stats

import (
	"fmt"
	"sync/atomic"
)

// Snmp holds running counters for one Codec's lifetime. All fields are
// updated with sync/atomic so a Codec can be driven from multiple
// goroutines safely.
type Snmp struct {
	BlocksEncoded      uint64
	BlocksDecoded      uint64
	VerticesCorrected  uint64
	InnerRSFailures    uint64
	OuterRSFailures    uint64
	ErasuresRecovered  uint64
	ErrorsRecovered    uint64
	DecodeAttempts     uint64
	DecodeSuccesses    uint64
}

// DefaultSnmp is a package-level counter set, mirroring kcp-go's
// DefaultSnmp convention. A Codec does not update it: NewCodec gives every
// Codec its own Snmp.
var DefaultSnmp = NewSnmp()

// NewSnmp returns a zeroed counter set.
func NewSnmp() *Snmp {
	return new(Snmp)
}

func (s *Snmp) Copy() *Snmp {
	d := NewSnmp()
	d.BlocksEncoded = atomic.LoadUint64(&s.BlocksEncoded)
	d.BlocksDecoded = atomic.LoadUint64(&s.BlocksDecoded)
	d.VerticesCorrected = atomic.LoadUint64(&s.VerticesCorrected)
	d.InnerRSFailures = atomic.LoadUint64(&s.InnerRSFailures)
	d.OuterRSFailures = atomic.LoadUint64(&s.OuterRSFailures)
	d.ErasuresRecovered = atomic.LoadUint64(&s.ErasuresRecovered)
	d.ErrorsRecovered = atomic.LoadUint64(&s.ErrorsRecovered)
	d.DecodeAttempts = atomic.LoadUint64(&s.DecodeAttempts)
	d.DecodeSuccesses = atomic.LoadUint64(&s.DecodeSuccesses)
	return d
}

// Reset zeroes every counter.
func (s *Snmp) Reset() {
	atomic.StoreUint64(&s.BlocksEncoded, 0)
	atomic.StoreUint64(&s.BlocksDecoded, 0)
	atomic.StoreUint64(&s.VerticesCorrected, 0)
	atomic.StoreUint64(&s.InnerRSFailures, 0)
	atomic.StoreUint64(&s.OuterRSFailures, 0)
	atomic.StoreUint64(&s.ErasuresRecovered, 0)
	atomic.StoreUint64(&s.ErrorsRecovered, 0)
	atomic.StoreUint64(&s.DecodeAttempts, 0)
	atomic.StoreUint64(&s.DecodeSuccesses, 0)
}

// Header returns the CSV column names, in the same order ToSlice emits
// values.
func (s *Snmp) Header() []string {
	return []string{
		"BlocksEncoded",
		"BlocksDecoded",
		"VerticesCorrected",
		"InnerRSFailures",
		"OuterRSFailures",
		"ErasuresRecovered",
		"ErrorsRecovered",
		"DecodeAttempts",
		"DecodeSuccesses",
	}
}

// ToSlice returns every counter's current value, formatted for CSV.
func (s *Snmp) ToSlice() []string {
	snap := s.Copy()
	return []string{
		fmt.Sprint(snap.BlocksEncoded),
		fmt.Sprint(snap.BlocksDecoded),
		fmt.Sprint(snap.VerticesCorrected),
		fmt.Sprint(snap.InnerRSFailures),
		fmt.Sprint(snap.OuterRSFailures),
		fmt.Sprint(snap.ErasuresRecovered),
		fmt.Sprint(snap.ErrorsRecovered),
		fmt.Sprint(snap.DecodeAttempts),
		fmt.Sprint(snap.DecodeSuccesses),
	}
}
