package store

import (
	"encoding/json"
	"fmt"

	"github.com/neurokit/spikekit/collection"
	"github.com/neurokit/spikekit/compress"
	"github.com/neurokit/spikekit/encoding"
	"github.com/neurokit/spikekit/errs"
	"github.com/neurokit/spikekit/internal/hash"
	"github.com/neurokit/spikekit/section"
)

// decodeCollection parses one persisted collection blob.
//
// Both payload checksums are verified before decompression; a mismatch
// fails the whole load rather than returning a partially trusted
// collection.
func decodeCollection(data []byte) (*collection.Collection, error) {
	header, err := section.ParseCollectionHeader(data)
	if err != nil {
		return nil, err
	}

	major, minor, patch := header.Version()
	fileVersion := fmt.Sprintf("%d.%d.%d", major, minor, patch)

	if !collection.VersionSupported(fileVersion) {
		return nil, fmt.Errorf("%w: written by %s, minimum supported is %s",
			errs.ErrStaleCollection, fileVersion, collection.MinSupportedVersion)
	}
	if collection.CompareVersions(fileVersion, collection.Version) > 0 {
		return nil, fmt.Errorf("%w: written by %s, this pipeline is %s",
			errs.ErrUnsupportedVersion, fileVersion, collection.Version)
	}

	engine := header.Flag.GetEndianEngine()

	basename, _, err := encoding.DecodeVarString(data[section.HeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("basename: %w", err)
	}

	count := int(header.UnitCount)
	if count == 0 {
		return nil, errs.ErrEmptyCollection
	}

	if int(header.MetaPayloadOffset) > len(data) ||
		header.TimesPayloadOffset > header.MetaPayloadOffset ||
		header.IndexOffset > header.TimesPayloadOffset {
		return nil, errs.ErrInvalidHeaderSize
	}

	entries, err := section.ParseUnitIndex(data[header.IndexOffset:header.TimesPayloadOffset], count, engine)
	if err != nil {
		return nil, err
	}

	timesPayload := data[header.TimesPayloadOffset:header.MetaPayloadOffset]
	if hash.Checksum(timesPayload) != header.TimesChecksum {
		return nil, fmt.Errorf("%w: times payload", errs.ErrChecksumMismatch)
	}

	metaPayloadBytes := data[header.MetaPayloadOffset:]
	if hash.Checksum(metaPayloadBytes) != header.MetaChecksum {
		return nil, fmt.Errorf("%w: meta payload", errs.ErrChecksumMismatch)
	}

	timesCodec, err := compress.GetCodec(header.Flag.TimesCompression())
	if err != nil {
		return nil, err
	}
	times, err := timesCodec.Decompress(timesPayload)
	if err != nil {
		return nil, fmt.Errorf("decompress times payload: %w", err)
	}

	metaCodec, err := compress.GetCodec(header.Flag.MetaCompression())
	if err != nil {
		return nil, err
	}
	metaBytes, err := metaCodec.Decompress(metaPayloadBytes)
	if err != nil {
		return nil, fmt.Errorf("decompress meta payload: %w", err)
	}

	var meta metaPayload
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal meta payload: %w", err)
	}
	if len(meta.Units) != count {
		return nil, fmt.Errorf("%w: header says %d units, meta payload has %d",
			errs.ErrInvalidUnitCount, count, len(meta.Units))
	}

	col := &collection.Collection{
		Basename:        basename,
		SR:              header.SamplingRate,
		Units:           meta.Units,
		NumcellsOrigSet: header.Flag.HasOrigCount(),
		Processing:      meta.Processing,
	}
	if col.NumcellsOrigSet {
		col.NumcellsOrig = int(header.UnitCountOrig)
	}

	// The index is authoritative for identity and spike counts; the meta
	// payload only supplies the optional fields.
	for i := range col.Units {
		entry := &entries[i]
		u := &col.Units[i]

		if u.CluID != entry.CluID || u.ShankID != int(entry.ShankID) {
			return nil, fmt.Errorf("unit %d: index entry (clu %d, shank %d) disagrees with meta (clu %d, shank %d)",
				i, entry.CluID, entry.ShankID, u.CluID, u.ShankID)
		}

		u.Times, err = encoding.DecodeTimesRaw(times[entry.TimesOffset:], entry.Count, engine)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		u.Total = entry.Count
	}

	return col, nil
}
