package document

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"go.uber.org/zap"
)

// EncoderConfig holds encoder settings.
type EncoderConfig struct {
	logger    *zap.Logger
	dedup     bool
	listCount format.CountMode
	fileType  string
	version   string
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		logger:    Logger(),
		dedup:     true,
		listCount: format.CountElements,
	}
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithEncoderLogger sets the logger for encode diagnostics.
func WithEncoderLogger(l *zap.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithLabelDedup controls whether fields with the same label share one label
// table entry. It is on by default.
func WithLabelDedup(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.dedup = enabled
	})
}

// WithEncoderListIndicesCount sets the unit written to the list-indices
// header count.
func WithEncoderListIndicesCount(mode format.CountMode) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		switch mode {
		case format.CountElements, format.CountBytes:
			c.listCount = mode
			return nil
		default:
			return fmt.Errorf("invalid list indices count mode: %v", mode)
		}
	})
}

// WithFileType overrides the magic tag written to the header. Without it the
// document's own FileType is used.
func WithFileType(fileType string) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, ok := format.NormalizeTag(fileType); !ok {
			return fmt.Errorf("invalid file type %q", fileType)
		}
		c.fileType = fileType

		return nil
	})
}

// WithVersion overrides the version tag written to the header. Without it the
// document's own Version is used.
func WithVersion(version string) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, ok := format.NormalizeTag(version); !ok {
			return fmt.Errorf("invalid version %q", version)
		}
		c.version = version

		return nil
	})
}
