package document

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"go.uber.org/zap"
)

// Decode limits applied unless overridden.
const (
	DefaultMaxStructDepth = 256
	DefaultMaxStructs     = 1 << 20
)

// DecoderConfig holds decoder settings.
type DecoderConfig struct {
	logger        *zap.Logger
	fileTypes     []string
	strictVersion bool
	listCount     format.CountMode
	maxDepth      int
	maxStructs    int
}

func newDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		logger:     Logger(),
		fileTypes:  []string{format.FileTypeGFF},
		listCount:  format.CountElements,
		maxDepth:   DefaultMaxStructDepth,
		maxStructs: DefaultMaxStructs,
	}
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithLogger sets the logger for decode warnings.
func WithLogger(l *zap.Logger) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithAllowedFileTypes replaces the accepted magic tags. Tags shorter than 4
// bytes are padded with spaces, so "UTC" accepts "UTC ".
func WithAllowedFileTypes(fileTypes ...string) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if len(fileTypes) == 0 {
			return fmt.Errorf("at least one file type is required")
		}
		for _, ft := range fileTypes {
			if _, ok := format.NormalizeTag(ft); !ok {
				return fmt.Errorf("invalid file type %q", ft)
			}
		}
		c.fileTypes = fileTypes

		return nil
	})
}

// WithStrictVersion makes a version tag other than V3.2 fatal instead of a
// warning.
func WithStrictVersion(strict bool) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.strictVersion = strict
	})
}

// WithListIndicesCount sets the unit of the list-indices header count.
// Files written by BioWare tools use format.CountBytes.
func WithListIndicesCount(mode format.CountMode) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		return c.setListCount(mode)
	})
}

// WithMaxStructDepth limits struct nesting; the root is depth 0.
func WithMaxStructDepth(depth int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if depth < 1 {
			return fmt.Errorf("invalid max struct depth: %d", depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithMaxStructs limits the number of structs materialized by one decode.
// Structs referenced from several places count once per reference.
func WithMaxStructs(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if n < 1 {
			return fmt.Errorf("invalid max structs: %d", n)
		}
		c.maxStructs = n

		return nil
	})
}

func (c *DecoderConfig) setListCount(mode format.CountMode) error {
	switch mode {
	case format.CountElements, format.CountBytes:
		c.listCount = mode
		return nil
	default:
		return fmt.Errorf("invalid list indices count mode: %v", mode)
	}
}
