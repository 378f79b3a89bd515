package document

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"go.uber.org/zap"
)

// Encoder encodes Documents into GFF bytes. An Encoder holds only its
// configuration and may be reused and shared between goroutines.
type Encoder struct {
	config *EncoderConfig
}

// NewEncoder creates an encoder.
//
// Parameters:
//   - opts: Optional encoder configuration
//
// Returns:
//   - *Encoder: Encoder instance
//   - error: Option error
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	config := newEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Encoder{config: config}, nil
}

// Encode lays out doc and serializes it. Every call performs a full layout;
// the tables a document was decoded from are not reused.
//
// Returns:
//   - []byte: Complete GFF file
//   - error: ErrNilValue, ErrCyclicStructReference, label and value errors
//     from layout, or ErrRegionTooLarge
func (e *Encoder) Encode(doc *Document) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("document root: %w", errs.ErrNilValue)
	}
	if err := doc.Root.CheckAcyclic(); err != nil {
		return nil, err
	}

	tables, err := Layout(doc.Root, e.config.dedup)
	if err != nil {
		return nil, err
	}

	h, err := tables.Header(e.fileType(doc), e.version(doc), e.config.listCount)
	if err != nil {
		return nil, err
	}

	out, err := tables.Bytes(h)
	if err != nil {
		return nil, err
	}

	e.config.logger.Debug("encoded document",
		zap.String("fileType", h.FileTypeString()),
		zap.Int("structs", len(tables.Structs)),
		zap.Int("fields", len(tables.Fields)),
		zap.Int("labels", len(tables.Labels)),
		zap.Int("size", len(out)))

	return out, nil
}

func (e *Encoder) fileType(doc *Document) string {
	switch {
	case e.config.fileType != "":
		return e.config.fileType
	case doc.FileType != "":
		return doc.FileType
	default:
		return format.FileTypeGFF
	}
}

func (e *Encoder) version(doc *Document) string {
	switch {
	case e.config.version != "":
		return e.config.version
	case doc.Version != "":
		return doc.Version
	default:
		return format.VersionV32
	}
}
