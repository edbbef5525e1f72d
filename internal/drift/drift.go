// Package drift compares a PCR clock against wall-clock capture time.
//
// Input is a text file with one sample per line: a PCR value on the 90 kHz
// scale and a timestamp in nanoseconds, separated by a tab. Both columns are
// made relative to the first line and converted to seconds, and the
// difference between them is the drift of the PCR clock.
package drift

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
)

const (
	PcrHz       = 90000.0
	TimestampHz = 1000000000.0
)

const readBufSize = 64 * 1024

// Sample is one normalized row, in seconds since the baseline.
type Sample struct {
	Pcr       float64
	Timestamp float64
	Drift     float64
}

func (s Sample) String() string {
	return FormatFloat(s.Pcr) + fieldSep + FormatFloat(s.Timestamp) + fieldSep + FormatFloat(s.Drift)
}

// Processor normalizes rows against the first row it sees.
type Processor struct {
	baseline    Row
	hasBaseline bool
}

// Baseline returns the first row seen, if any.
func (p *Processor) Baseline() (Row, bool) {
	return p.baseline, p.hasBaseline
}

func (p *Processor) Next(row Row) Sample {
	if !p.hasBaseline {
		p.baseline = row
		p.hasBaseline = true
	}
	var s Sample
	s.Pcr = sub(row.Pcr, p.baseline.Pcr) / PcrHz
	s.Timestamp = sub(row.Timestamp, p.baseline.Timestamp) / TimestampHz
	s.Drift = s.Pcr - s.Timestamp
	return s
}

// sub returns a-b as a float64, falling back to big.Int when the int64
// difference overflows.
func sub(a, b int64) float64 {
	d := a - b
	if (b >= 0 && d <= a) || (b < 0 && d > a) {
		return float64(d)
	}
	f, _ := new(big.Float).SetInt(new(big.Int).Sub(big.NewInt(a), big.NewInt(b))).Float64()
	return f
}

// Process writes one normalized line to w for every line of r, in order.
func Process(r io.Reader, w io.Writer) error {
	var p Processor
	br := bufio.NewReaderSize(r, readBufSize)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			s := p.Next(ParseRow(line))
			if _, werr := fmt.Fprintln(bw, s); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FileAccessError reports an input file that could not be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ProcessFile runs Process over the named file. Nothing is written when the
// file cannot be opened.
func ProcessFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	return Process(&fileReader{f: f, path: path}, w)
}

// fileReader reports read failures as FileAccessError.
type fileReader struct {
	f    *os.File
	path string
}

func (r *fileReader) Read(b []byte) (int, error) {
	n, err := r.f.Read(b)
	if err != nil && err != io.EOF {
		err = &FileAccessError{Path: r.path, Err: err}
	}
	return n, err
}
