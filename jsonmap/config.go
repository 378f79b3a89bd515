package jsonmap

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/internal/options"
)

// DefaultStructIDKey is the object key carrying a struct's id.
const DefaultStructIDKey = "__struct_id"

// Config holds JSON mapper settings.
type Config struct {
	prefix string
	indent string
	idKey  string
	sorted bool
}

func newConfig() *Config {
	return &Config{idKey: DefaultStructIDKey}
}

// Option configures ToJSON and FromJSON.
type Option = options.Option[*Config]

// WithIndent pretty-prints the output the way json.MarshalIndent does.
func WithIndent(prefix, indent string) Option {
	return options.NoError(func(c *Config) {
		c.prefix = prefix
		c.indent = indent
	})
}

// WithStructIDKey changes the reserved key used for struct ids. A field with
// this label cannot be represented and fails with ErrReservedKeyCollision.
func WithStructIDKey(key string) Option {
	return options.New(func(c *Config) error {
		if key == "" {
			return fmt.Errorf("struct id key must not be empty")
		}
		c.idKey = key

		return nil
	})
}

// WithSortedFields writes the fields of every struct sorted
// case-insensitively by label instead of in document order. It has no effect
// on FromJSON, which always keeps the input order.
func WithSortedFields(sorted bool) Option {
	return options.NoError(func(c *Config) {
		c.sorted = sorted
	})
}
