package store

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/compress"
	"github.com/neurokit/spikekit/encoding"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/format"
	"github.com/neurokit/spikekit/internal/hash"
	"github.com/neurokit/spikekit/internal/pool"
	"github.com/neurokit/spikekit/section"
)

// metaPayload is the JSON document stored in the meta payload section. It
// carries everything the fixed header and index cannot: the per-unit
// optional fields and the provenance block.
//
// Spike times are deliberately absent (excluded by the Unit json tags);
// they live in the binary times payload.
type metaPayload struct {
	Units      []collection.Unit     `json:"units"`
	Processing collection.Provenance `json:"processing"`
}

// encodeCollection serializes a collection into the single-file layout:
// header, basename var-string, unit index, compressed times payload,
// compressed meta payload.
func encodeCollection(col *collection.Collection, timesComp, metaComp format.CompressionType) ([]byte, error) {
	if col == nil || len(col.Units) == 0 {
		return nil, errs.ErrEmptyCollection
	}
	if int64(len(col.Units)) > int64(section.MaxUnitCount) {
		return nil, fmt.Errorf("%w: %d units", errs.ErrInvalidUnitCount, len(col.Units))
	}

	major, minor, patch, err := collection.ParseVersion(collection.Version)
	if err != nil {
		return nil, err
	}

	header := section.NewCollectionHeader(uint8(major), uint8(minor), uint8(patch))
	header.Flag.SetTimesCompression(timesComp)
	header.Flag.SetMetaCompression(metaComp)
	header.SamplingRate = col.SR
	header.UnitCount = uint32(len(col.Units))
	header.Flag.SetOrigCount(col.NumcellsOrigSet)
	if col.NumcellsOrigSet {
		header.UnitCountOrig = uint32(col.NumcellsOrig)
	}

	engine := header.Flag.GetEndianEngine()

	basename, err := encoding.AppendVarString(nil, col.Basename)
	if err != nil {
		return nil, fmt.Errorf("basename: %w", err)
	}

	// Unit index with delta offset encoding, plus the flat times payload.
	timesEnc := encoding.NewTimesRawEncoder(engine)
	defer timesEnc.Finish()

	index := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(index)

	index.Grow(len(col.Units) * section.UnitIndexEntrySize)
	prevOffset := 0
	for i := range col.Units {
		u := &col.Units[i]

		entry := section.UnitIndexEntry{
			CluID:       u.CluID,
			ShankID:     uint32(u.ShankID),
			Count:       len(u.Times),
			TimesOffset: timesEnc.Len() - prevOffset,
		}
		prevOffset = timesEnc.Len()

		entryBytes, err := entry.Bytes(engine)
		if err != nil {
			return nil, fmt.Errorf("unit %d index: %w", u.UID, err)
		}
		index.MustWrite(entryBytes)

		timesEnc.WriteSlice(u.Times)
	}

	timesCodec, err := compress.GetCodec(timesComp)
	if err != nil {
		return nil, err
	}
	timesPayload, err := timesCodec.Compress(timesEnc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress times payload: %w", err)
	}

	meta, err := json.Marshal(metaPayload{Units: col.Units, Processing: col.Processing})
	if err != nil {
		return nil, fmt.Errorf("marshal meta payload: %w", err)
	}

	metaCodec, err := compress.GetCodec(metaComp)
	if err != nil {
		return nil, err
	}
	metaPayloadBytes, err := metaCodec.Compress(meta)
	if err != nil {
		return nil, fmt.Errorf("compress meta payload: %w", err)
	}

	indexOffset := section.HeaderSize + len(basename)
	timesOffset := indexOffset + index.Len()
	metaOffset := timesOffset + len(timesPayload)
	total := metaOffset + len(metaPayloadBytes)

	if int64(total) > math.MaxUint32 {
		return nil, fmt.Errorf("encoded collection size %d exceeds the format's 4 GiB section offset limit", total)
	}

	header.IndexOffset = uint32(indexOffset)
	header.TimesPayloadOffset = uint32(timesOffset)
	header.MetaPayloadOffset = uint32(metaOffset)
	header.TimesChecksum = hash.Checksum(timesPayload)
	header.MetaChecksum = hash.Checksum(metaPayloadBytes)

	out := make([]byte, 0, total)
	out = append(out, header.Bytes()...)
	out = append(out, basename...)
	out = append(out, index.Bytes()...)
	out = append(out, timesPayload...)
	out = append(out, metaPayloadBytes...)

	return out, nil
}
