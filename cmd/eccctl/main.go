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

package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/ChaniMil/ECC-linear-time/codec"
	"github.com/ChaniMil/ECC-linear-time/internal/wire"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

// paramFlags are shared across every subcommand that needs to solve or
// commit to a parameter tuple.
var paramFlags = []cli.Flag{
	cli.Float64Flag{
		Name:  "rate, r",
		Value: 0.3,
		Usage: "target code rate k/n",
	},
	cli.Float64Flag{
		Name:  "epsilon, e",
		Value: 0.02,
		Usage: "target epsilon (redundancy slack) used for the mixed error/erasure bound",
	},
	cli.IntFlag{
		Name:  "k",
		Usage: "solve by exact code dimension instead of by (rate, epsilon); 0 disables",
	},
	cli.Float64Flag{
		Name:  "ratedist",
		Value: 0.05,
		Usage: "tolerance around rate when solving by (rate, epsilon)",
	},
	cli.Float64Flag{
		Name:  "epsdist",
		Value: 0.01,
		Usage: "tolerance around epsilon when solving by (rate, epsilon)",
	},
	cli.IntFlag{
		Name:  "primelimit",
		Value: 200,
		Usage: "largest prime considered while solving for admissible (p,q) pairs",
	},
	cli.IntFlag{
		Name:  "maxk",
		Value: 1000000,
		Usage: "largest code dimension considered while solving by (rate, epsilon)",
	},
	cli.IntFlag{
		Name:  "choice",
		Usage: "index into the candidate tuple list to commit to, when solving by (rate, epsilon)",
	},
	cli.StringFlag{
		Name:  "c",
		Value: "",
		Usage: "config from json file, which will override the command from shell",
	},
}

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "eccctl"
	myApp.Usage = "encode and decode messages with a linear-time expander-graph error/erasure code"
	myApp.Version = VERSION
	myApp.Commands = []cli.Command{
		{
			Name:  "params",
			Usage: "solve for a parameter tuple and print its statistics",
			Flags: paramFlags,
			Action: func(c *cli.Context) error {
				cd, _, err := buildCodec(c)
				if err != nil {
					return err
				}
				color.Cyan(cd.Summary())
				return nil
			},
		},
		{
			Name:  "encode",
			Usage: "encode a message file into a codeword file",
			Flags: append(append([]cli.Flag{}, paramFlags...),
				cli.StringFlag{Name: "input, i", Usage: "message file to encode"},
				cli.StringFlag{Name: "output, o", Usage: "codeword file to write"},
			),
			Action: actionEncode,
		},
		{
			Name:  "decode",
			Usage: "decode a codeword file back into a message file",
			Flags: append(append([]cli.Flag{}, paramFlags...),
				cli.StringFlag{Name: "input, i", Usage: "codeword file to decode"},
				cli.StringFlag{Name: "output, o", Usage: "message file to write"},
				cli.StringFlag{Name: "erasures", Usage: "comma-separated list of known-erased right-block indices"},
				cli.IntFlag{Name: "targetsize", Usage: "truncate the recovered message to this many bytes; 0 keeps the full code dimension"},
			),
			Action: actionDecode,
		},
	}
	if err := myApp.Run(os.Args); err != nil {
		color.Red("%+v", err)
		os.Exit(1)
	}
}

// buildCodec reads flags (and an optional "-c" JSON override) into a
// Config, solves for a parameter tuple, and commits the Codec to it.
func buildCodec(c *cli.Context) (*codec.Codec, Config, error) {
	config := Config{
		Rate:       c.Float64("rate"),
		Epsilon:    c.Float64("epsilon"),
		K:          c.Int("k"),
		RateDist:   c.Float64("ratedist"),
		EpsDist:    c.Float64("epsdist"),
		PrimeLimit: c.Int("primelimit"),
		MaxK:       c.Int("maxk"),
		Choice:     c.Int("choice"),
		Input:      c.String("input"),
		Output:     c.String("output"),
		Erasures:   c.String("erasures"),
		TargetSize: c.Int("targetsize"),
	}
	if c.String("c") != "" {
		if err := parseJSONConfig(&config, c.String("c")); err != nil {
			return nil, config, errors.Wrap(err, "eccctl: reading config file")
		}
	}

	cd, err := codec.NewCodec(config.Epsilon, config.Rate, config.K, config.EpsDist, config.RateDist, config.PrimeLimit, config.MaxK)
	if err != nil {
		return nil, config, errors.Wrap(err, "eccctl: constructing codec")
	}
	if config.K == 0 {
		if err := cd.Choose(config.Choice); err != nil {
			return nil, config, errors.Wrap(err, "eccctl: committing to a parameter tuple")
		}
	}
	log.Println("committed parameter tuple:")
	if tup, ok := cd.Tuple(); ok {
		log.Printf("  left graph (p,q) = (%d,%d), expander graph (p,q) = (%d,%d), block size b = %d, k = %d",
			tup.Pr, tup.Qr, tup.Pe, tup.Qe, tup.B, tup.K)
	}
	return cd, config, nil
}

func actionEncode(c *cli.Context) error {
	cd, config, err := buildCodec(c)
	if err != nil {
		return err
	}
	if config.Input == "" || config.Output == "" {
		return errors.New("eccctl: encode requires both -input and -output")
	}

	message, err := os.ReadFile(config.Input)
	if err != nil {
		return errors.Wrap(err, "eccctl: reading input message")
	}

	cw, err := cd.Encode(message)
	if err != nil {
		return errors.Wrap(err, "eccctl: encoding")
	}

	out, err := os.Create(config.Output)
	if err != nil {
		return errors.Wrap(err, "eccctl: creating output file")
	}
	defer out.Close()
	if err := wire.Write(out, cw.Delta, cw.Blocks); err != nil {
		return errors.Wrap(err, "eccctl: writing codeword")
	}

	color.Green("encoded %d bytes into %d blocks of %d bytes each", len(message), len(cw.Blocks), cw.Delta)
	return nil
}

func actionDecode(c *cli.Context) error {
	cd, config, err := buildCodec(c)
	if err != nil {
		return err
	}
	if config.Input == "" || config.Output == "" {
		return errors.New("eccctl: decode requires both -input and -output")
	}

	in, err := os.Open(config.Input)
	if err != nil {
		return errors.Wrap(err, "eccctl: opening codeword file")
	}
	defer in.Close()
	delta, blocks, err := wire.Read(in)
	if err != nil {
		return errors.Wrap(err, "eccctl: reading codeword")
	}

	erasures, err := parseErasures(config.Erasures)
	if err != nil {
		return errors.Wrap(err, "eccctl: parsing erasures")
	}

	decoded, ok, err := cd.Decode(codec.Codeword{Delta: delta, Blocks: blocks}, erasures, config.TargetSize)
	if err != nil {
		return errors.Wrap(err, "eccctl: decoding")
	}
	if !ok {
		color.Red("decode did not fully succeed; output may contain uncorrected errors")
	}

	if err := os.WriteFile(config.Output, decoded, 0o644); err != nil {
		return errors.Wrap(err, "eccctl: writing output message")
	}

	stats := cd.Stats()
	color.Green("decoded %d bytes (ok=%v); attempts=%d successes=%d",
		len(decoded), ok, stats.DecodeAttempts, stats.DecodeSuccesses)
	return nil
}

func parseErasures(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid erasure index %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
