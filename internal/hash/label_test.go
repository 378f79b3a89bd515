package hash

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		hash  uint64
	}{
		{"empty label", "", 0xef46db3751d8e999},
		{"short label", "test", 0x4fdcca5ddb678139},
		{"long label", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
		{"another label", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hash, Label(tt.label))
		})
	}
}

func TestLabel_CaseSensitive(t *testing.T) {
	assert.NotEqual(t, Label("Tag"), Label("tag"))
}

func randLabel(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b {
		b[i] = letters[seededRand.Intn(len(letters))]
	}

	return string(b)
}

func BenchmarkLabel(b *testing.B) {
	label := randLabel(16)
	b.ResetTimer()
	for b.Loop() {
		Label(label)
	}
}
