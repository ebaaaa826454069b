package sandpile

import (
	"sort"

	"sandpile/internal/core"
)

// Record is one entry of the avalanche time series.
type Record struct {
	Step int
	Size int
	Cell core.Cell
	Area int
	Lost int
}

// Recorder accumulates avalanche records in step order.
type Recorder struct {
	records []Record
}

// NewRecorder returns an empty recorder with room for n records.
func NewRecorder(n int) *Recorder {
	if n < 0 {
		n = 0
	}
	return &Recorder{records: make([]Record, 0, n)}
}

// Add appends r to the history.
func (r *Recorder) Add(rec Record) { r.records = append(r.records, rec) }

// Len returns the number of records.
func (r *Recorder) Len() int { return len(r.records) }

// History returns a copy of the records in insertion order.
func (r *Recorder) History() []Record {
	return append([]Record(nil), r.records...)
}

// Reset drops all records.
func (r *Recorder) Reset() { r.records = r.records[:0] }

// Summary aggregates a run's avalanche history.
type Summary struct {
	Steps       int
	Avalanches  int
	Topples     int
	Largest     int
	LargestStep int
	MeanSize    float64
	Lost        int
}

// Summary computes aggregate statistics over the history.
func (r *Recorder) Summary() Summary {
	s := Summary{Steps: len(r.records), LargestStep: -1}
	for _, rec := range r.records {
		s.Topples += rec.Size
		s.Lost += rec.Lost
		if rec.Size > 0 {
			s.Avalanches++
		}
		if rec.Size > s.Largest {
			s.Largest = rec.Size
			s.LargestStep = rec.Step
		}
	}
	if s.Avalanches > 0 {
		s.MeanSize = float64(s.Topples) / float64(s.Avalanches)
	}
	return s
}

// Bin counts how many steps produced an avalanche of a given size.
type Bin struct {
	Size  int
	Count int
}

// Distribution returns the avalanche size frequencies, ascending by size.
// Steps without a topple are counted under size 0.
func (r *Recorder) Distribution() []Bin {
	counts := make(map[int]int)
	for _, rec := range r.records {
		counts[rec.Size]++
	}
	bins := make([]Bin, 0, len(counts))
	for size, n := range counts {
		bins = append(bins, Bin{Size: size, Count: n})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Size < bins[j].Size })
	return bins
}
