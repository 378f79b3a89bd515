package embed

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/compress"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"go.uber.org/zap"
)

// Config holds embed settings.
type Config struct {
	logger      *zap.Logger
	compression format.CompressionType
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		logger:      zap.NewNop(),
		compression: format.CompressionZlib,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures Embed and Extract.
type Option = options.Option[*Config]

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithCompression selects the codec Embed compresses with. Extract ignores it
// and reads the codec from the blob. The default is zlib.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("embed: %w", err)
		}
		c.compression = ct

		return nil
	})
}
