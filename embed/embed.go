// Package embed attaches a compressed database image to the end of a GFF file
// and recovers it again.
//
// The attachment layout is
//
//	GFF bytes | "SQL3" | codec (1 byte) | compressed database
//
// where codec is a format.CompressionType. Blobs written by older tools have
// no codec byte and hold a zlib stream directly after the marker; those are
// recognized by the zlib header byte 0x78, which is never a valid codec.
package embed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/altpersona/nwn-gff-service/compress"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/section"
	"go.uber.org/zap"
)

// Marker precedes every embedded database.
var Marker = []byte("SQL3")

const legacyZlibHeader = 0x78

// Embed returns gff followed by the marker and the compressed db.
// The input slices are not modified.
func Embed(gff, db []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	packed, err := codec.Compress(db)
	if err != nil {
		return nil, fmt.Errorf("embed: compress database: %w", err)
	}

	out := make([]byte, 0, len(gff)+len(Marker)+1+len(packed))
	out = append(out, gff...)
	out = append(out, Marker...)
	out = append(out, byte(cfg.compression))
	out = append(out, packed...)

	cfg.logger.Debug("embedded database",
		zap.Int("gff_bytes", len(gff)),
		zap.Int("db_bytes", len(db)),
		zap.Int("packed_bytes", len(packed)),
		zap.Stringer("compression", cfg.compression),
	)

	return out, nil
}

// Extract returns the database embedded in data.
//
// The attachment is looked for where the GFF regions named by the header
// end. When data has no readable header, or nothing decodes at that offset,
// marker candidates are scanned from the last one backwards.
// ErrEmbedNotFound is returned when data holds no marker; when markers exist
// but none decodes, the error of the first failing candidate is returned.
func Extract(data []byte, opts ...Option) ([]byte, error) {
	_, db, err := Split(data, opts...)

	return db, err
}

// Split separates data into the GFF bytes and the decompressed database.
func Split(data []byte, opts ...Option) (gff, db []byte, err error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	var firstErr error
	tried := -1
	if pos, ok := headerOffset(data); ok {
		tried = pos
		out, decodeErr := decodeAt(data[pos+len(Marker):])
		if decodeErr == nil {
			cfg.logger.Debug("extracted database",
				zap.Int("marker_offset", pos),
				zap.Int("db_bytes", len(out)),
			)

			return data[:pos], out, nil
		}
		cfg.logger.Debug("skipping marker candidate", zap.Int("marker_offset", pos), zap.Error(decodeErr))
		firstErr = decodeErr
	}

	end := len(data)
	for {
		pos := bytes.LastIndex(data[:end], Marker)
		if pos < 0 {
			break
		}
		if pos == tried {
			end = pos
			continue
		}

		out, decodeErr := decodeAt(data[pos+len(Marker):])
		if decodeErr == nil {
			cfg.logger.Debug("extracted database",
				zap.Int("marker_offset", pos),
				zap.Int("db_bytes", len(out)),
				zap.Bool("scanned", true),
			)

			return data[:pos], out, nil
		}

		cfg.logger.Debug("skipping marker candidate", zap.Int("marker_offset", pos), zap.Error(decodeErr))
		if firstErr == nil {
			firstErr = decodeErr
		}
		end = pos
	}

	if firstErr != nil {
		return nil, nil, firstErr
	}

	return nil, nil, errs.ErrEmbedNotFound
}

// headerOffset returns the end of the GFF regions when a marker starts
// there. Both list-indices count modes are tried.
func headerOffset(data []byte) (int, bool) {
	if len(data) < section.HeaderSize {
		return 0, false
	}

	var h section.Header
	if err := h.Parse(data[:section.HeaderSize]); err != nil {
		return 0, false
	}

	for _, mode := range []format.CountMode{format.CountElements, format.CountBytes} {
		end := h.End(mode)
		if end > uint64(len(data)) {
			continue
		}
		if bytes.HasPrefix(data[end:], Marker) {
			return int(end), true //nolint: gosec
		}
	}

	return 0, false
}

func decodeAt(blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: missing codec after marker", errs.ErrTruncatedData)
	}

	if blob[0] == legacyZlibHeader {
		return decompress(format.CompressionZlib, blob)
	}

	return decompress(format.CompressionType(blob[0]), blob[1:])
}

func decompress(ct format.CompressionType, packed []byte) ([]byte, error) {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	db, err := codec.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("embed: decompress %s database: %w", ct, err)
	}

	return db, nil
}

// IsNotFound reports whether err means no database was embedded.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrEmbedNotFound)
}
