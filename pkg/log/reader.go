package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects trace events. Zero fields match everything.
type Filter struct {
	RunID     string
	Direction *Direction
	Layer     *Layer
	Category  *Category

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// FromTick and ToTick bound the main function counter, both inclusive.
	// ToTick 0 means no upper bound.
	FromTick uint64
	ToTick   uint64

	Instance string
	Service  string
	Peer     string

	// Entry restricts to message events carrying this entry type.
	Entry *EntryType
}

func (f *Filter) matches(ev *Event) bool {
	switch {
	case f.RunID != "" && ev.RunID != f.RunID,
		f.Direction != nil && ev.Direction != *f.Direction,
		f.Layer != nil && ev.Layer != *f.Layer,
		f.Category != nil && ev.Category != *f.Category,
		f.TimeStart != nil && ev.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !ev.Timestamp.Before(*f.TimeEnd),
		ev.Tick < f.FromTick,
		f.ToTick != 0 && ev.Tick > f.ToTick,
		f.Instance != "" && ev.Instance != f.Instance,
		f.Service != "" && ev.Service != f.Service,
		f.Peer != "" && ev.Peer != f.Peer:
		return false
	}
	if f.Entry != nil && (ev.Message == nil || ev.Message.Entry != *f.Entry) {
		return false
	}
	return true
}

// Reader streams trace events, skipping those the filter rejects.
type Reader struct {
	src    io.Reader
	dec    *cbor.Decoder
	filter Filter
	read   int
}

// NewReader opens a trace file and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return NewStreamReader(f, filter), nil
}

// NewStreamReader reads events from r. Close closes r when it is an
// io.Closer.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{src: r, dec: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the stream.
// A stream cut inside an event returns io.ErrUnexpectedEOF.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.dec.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("trace event %d: %w", r.read+1, err)
		}
		r.read++
		if r.filter.matches(&ev) {
			return ev, nil
		}
	}
}

// Each calls fn for every remaining matching event and stops at the first
// error fn returns.
func (r *Reader) Each(fn func(Event) error) error {
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
