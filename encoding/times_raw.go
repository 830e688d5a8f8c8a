package encoding

import (
	"fmt"
	"math"

	"github.com/neurokit/spikekit/endian"
	"github.com/neurokit/spikekit/internal/pool"
)

// TimesRawEncoder encodes spike times as raw 64-bit IEEE 754 floats using
// the specified byte order.
//
// Units are written back to back into one flat payload; the per-unit index
// entries record where each unit's run starts. Raw encoding keeps the
// persisted times bit-exact with the in-memory collection.
//
// Note: The TimesRawEncoder is NOT thread-safe and NOT reusable after
// Finish.
type TimesRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

// NewTimesRawEncoder creates a new raw spike-times encoder using the
// specified endian engine.
//
// The encoder uses a pooled byte buffer with amortized growth for bulk
// appends.
func NewTimesRawEncoder(engine endian.EndianEngine) *TimesRawEncoder {
	return &TimesRawEncoder{
		engine: engine,
		buf:    pool.GetPayloadBuffer(),
	}
}

// WriteSlice appends one unit's spike times to the payload.
//
// Space for the whole slice is reserved up front (8 bytes per value), so
// bulk writes trigger at most one buffer growth.
//
// Panics if Finish has been called.
func (e *TimesRawEncoder) WriteSlice(times []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	n := len(times)
	e.count += n
	if n == 0 {
		return
	}

	e.buf.Grow(n * 8)
	for _, t := range times {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(t))
	}
}

// Len returns the current payload length in bytes.
func (e *TimesRawEncoder) Len() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Count returns the total number of timestamps written so far.
func (e *TimesRawEncoder) Count() int {
	return e.count
}

// Bytes returns the encoded payload.
//
// The returned slice aliases the pooled buffer and is only valid until
// Finish is called.
func (e *TimesRawEncoder) Bytes() []byte {
	if e.buf == nil {
		return nil
	}

	return e.buf.Bytes()
}

// Finish releases the pooled buffer. The encoder must not be used
// afterwards.
func (e *TimesRawEncoder) Finish() {
	pool.PutPayloadBuffer(e.buf)
	e.buf = nil
}

// DecodeTimesRaw decodes count float64 spike times from data using the
// specified endian engine.
//
// Parameters:
//   - data: Payload slice positioned at the unit's first timestamp
//   - count: Number of timestamps to decode
//   - engine: Endian engine matching the one used at encode time
//
// Returns:
//   - []float64: Decoded times, newly allocated
//   - error: Truncated-payload error if data holds fewer than count values
func DecodeTimesRaw(data []byte, count int, engine endian.EndianEngine) ([]float64, error) {
	if count < 0 || len(data) < count*8 {
		return nil, fmt.Errorf("times payload: need %d bytes, have %d", count*8, len(data))
	}

	times := make([]float64, count)
	for i := 0; i < count; i++ {
		times[i] = math.Float64frombits(engine.Uint64(data[i*8 : i*8+8]))
	}

	return times, nil
}
