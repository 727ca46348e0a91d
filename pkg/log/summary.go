package log

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Summary aggregates a trace.
type Summary struct {
	Events     int
	ByCategory map[Category]int

	// Sent and Received count message events per entry type.
	Sent     map[EntryType]int
	Received map[EntryType]int

	// Phases lists the service phase changes per service as "OLD>NEW".
	Phases map[string][]string

	// Diagnostics counts error events per diagnostic name.
	Diagnostics map[string]int

	Runs      map[string]struct{}
	FirstTick uint64
	LastTick  uint64
	Start     time.Time
	End       time.Time
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		ByCategory:  make(map[Category]int),
		Sent:        make(map[EntryType]int),
		Received:    make(map[EntryType]int),
		Phases:      make(map[string][]string),
		Diagnostics: make(map[string]int),
		Runs:        make(map[string]struct{}),
	}
}

// Add folds one event into the summary.
func (s *Summary) Add(ev Event) {
	if s.Events == 0 || ev.Tick < s.FirstTick {
		s.FirstTick = ev.Tick
	}
	if ev.Tick > s.LastTick {
		s.LastTick = ev.Tick
	}
	if s.Start.IsZero() || ev.Timestamp.Before(s.Start) {
		s.Start = ev.Timestamp
	}
	if ev.Timestamp.After(s.End) {
		s.End = ev.Timestamp
	}
	s.Events++
	s.ByCategory[ev.Category]++
	if ev.RunID != "" {
		s.Runs[ev.RunID] = struct{}{}
	}

	switch {
	case ev.Message != nil:
		if ev.Direction == DirectionOut {
			s.Sent[ev.Message.Entry]++
		} else {
			s.Received[ev.Message.Entry]++
		}
	case ev.StateChange != nil && ev.StateChange.Entity == StateEntityService:
		s.Phases[ev.Service] = append(s.Phases[ev.Service],
			ev.StateChange.OldState+">"+ev.StateChange.NewState)
	case ev.Error != nil:
		s.Diagnostics[ev.Error.Message]++
	}
}

// Summarize reads the remaining events of r into a summary.
func Summarize(r *Reader) (*Summary, error) {
	s := NewSummary()
	err := r.Each(func(ev Event) error {
		s.Add(ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WriteTo writes a human-readable report.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintf(cw, "Events: %d in %d run(s), ticks %d..%d\n", s.Events, len(s.Runs), s.FirstTick, s.LastTick)

	for _, c := range []Category{CategoryMessage, CategoryControl, CategoryState, CategoryError} {
		if n := s.ByCategory[c]; n > 0 {
			fmt.Fprintf(cw, "  %-10s %d\n", c.String()+":", n)
		}
	}

	entries := []EntryType{EntryFind, EntryOffer, EntryStopOffer, EntrySubscribe,
		EntryStopSubscribe, EntrySubscribeAck, EntrySubscribeNack}
	fmt.Fprintln(cw, "Entries (out/in):")
	for _, e := range entries {
		if s.Sent[e]+s.Received[e] > 0 {
			fmt.Fprintf(cw, "  %-16s %d/%d\n", e.String(), s.Sent[e], s.Received[e])
		}
	}

	if len(s.Phases) > 0 {
		fmt.Fprintln(cw, "Phases:")
		for _, name := range sortedKeys(s.Phases) {
			fmt.Fprintf(cw, "  %s: %v\n", name, s.Phases[name])
		}
	}
	if len(s.Diagnostics) > 0 {
		fmt.Fprintln(cw, "Diagnostics:")
		for _, name := range sortedKeys(s.Diagnostics) {
			fmt.Fprintf(cw, "  %-28s %d\n", name, s.Diagnostics[name])
		}
	}
	return cw.n, cw.err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
