package log

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A trace file is a plain sequence of CBOR items, one Event each. Encoding is
// canonical so identical runs produce identical files.
var traceCodec = newCodec()

type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCodec() codec {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic("log: trace encoder: " + err.Error())
	}
	dec, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyQuiet,
		IndefLength:     cbor.IndefLengthForbidden,
		MaxNestedLevels: 16,
	}.DecMode()
	if err != nil {
		panic("log: trace decoder: " + err.Error())
	}
	return codec{enc: enc, dec: dec}
}

// EncodeEvent returns the CBOR form of a single trace event.
func EncodeEvent(event Event) ([]byte, error) {
	return traceCodec.enc.Marshal(event)
}

// DecodeEvent parses one CBOR encoded trace event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := traceCodec.dec.Unmarshal(data, &event)
	if err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a stream encoder writing trace events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceCodec.enc.NewEncoder(w)
}

// NewDecoder returns a stream decoder reading trace events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceCodec.dec.NewDecoder(r)
}
