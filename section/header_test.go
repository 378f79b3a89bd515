package section

import (
	"testing"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/stretchr/testify/require"
)

func TestNewHeader(t *testing.T) {
	t.Run("Pads short tags", func(t *testing.T) {
		h, err := NewHeader("UTC", "V3.2")

		require.NoError(t, err)
		require.Equal(t, "UTC ", h.FileTypeString())
		require.Equal(t, "V3.2", h.VersionString())
	})

	t.Run("Rejects long tags", func(t *testing.T) {
		_, err := NewHeader("GFFXX", "V3.2")
		require.ErrorIs(t, err, errs.ErrInvalidTag)

		_, err = NewHeader("GFF ", "V3.2.1")
		require.ErrorIs(t, err, errs.ErrInvalidTag)
	})
}

func TestHeader_ParseBytes(t *testing.T) {
	original, err := NewHeader(format.FileTypeGFF, format.VersionV32)
	require.NoError(t, err)
	for i := range original.Regions {
		original.Regions[i] = RegionSpan{Offset: uint32(100 * (i + 1)), Count: uint32(i + 7)}
	}

	data := original.Bytes()
	require.Len(t, data, HeaderSize)
	require.Equal(t, []byte("GFF V3.2"), data[:8])
	require.Equal(t, []byte{100, 0, 0, 0, 7, 0, 0, 0}, data[8:16])

	parsed := &Header{}
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, *original, *parsed)

	require.ErrorIs(t, parsed.Parse(data[:10]), errs.ErrInvalidHeaderSize)
}

func TestParseHeader(t *testing.T) {
	valid, err := NewHeader(format.FileTypeGFF, format.VersionV32)
	require.NoError(t, err)

	t.Run("Valid header with trailing data", func(t *testing.T) {
		data := append(valid.Bytes(), 1, 2, 3)

		h, err := ParseHeader(data)

		require.NoError(t, err)
		require.Equal(t, "GFF ", h.FileTypeString())
		require.True(t, h.HasVersion(format.VersionV32))
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := ParseHeader(valid.Bytes()[:55])

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})

	t.Run("Bad magic", func(t *testing.T) {
		data := valid.Bytes()
		copy(data, "XYZ ")

		_, err := ParseHeader(data)

		require.ErrorIs(t, err, errs.ErrInvalidMagic)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})

	t.Run("Resource type magic needs to be allowed", func(t *testing.T) {
		utc, err := NewHeader("UTC ", format.VersionV32)
		require.NoError(t, err)

		_, err = ParseHeader(utc.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidMagic)

		h, err := ParseHeader(utc.Bytes(), "GFF", "UTC")
		require.NoError(t, err)
		require.Equal(t, "UTC ", h.FileTypeString())
	})

	t.Run("Version mismatch is not fatal", func(t *testing.T) {
		data := valid.Bytes()
		copy(data[4:], "V1.0")

		h, err := ParseHeader(data)

		require.NoError(t, err)
		require.False(t, h.HasVersion(format.VersionV32))
	})
}

func TestHeader_RegionSize(t *testing.T) {
	h := Header{}
	for i := range h.Regions {
		h.Regions[i].Count = 3
	}

	require.Equal(t, uint64(36), h.RegionSize(RegionStructs, format.CountElements))
	require.Equal(t, uint64(36), h.RegionSize(RegionFields, format.CountElements))
	require.Equal(t, uint64(48), h.RegionSize(RegionLabels, format.CountElements))
	require.Equal(t, uint64(3), h.RegionSize(RegionFieldData, format.CountElements))
	require.Equal(t, uint64(3), h.RegionSize(RegionFieldIndices, format.CountElements))
	require.Equal(t, uint64(12), h.RegionSize(RegionListIndices, format.CountElements))
	require.Equal(t, uint64(3), h.RegionSize(RegionListIndices, format.CountBytes))
}

func TestHeader_SetRegions(t *testing.T) {
	t.Run("Cumulative offsets", func(t *testing.T) {
		h := Header{}
		counts := [regionCount]uint32{2, 3, 2, 10, 12, 4}

		require.NoError(t, h.SetRegions(counts, format.CountElements))

		require.Equal(t, RegionSpan{Offset: 56, Count: 2}, h.Span(RegionStructs))
		require.Equal(t, RegionSpan{Offset: 80, Count: 3}, h.Span(RegionFields))
		require.Equal(t, RegionSpan{Offset: 116, Count: 2}, h.Span(RegionLabels))
		require.Equal(t, RegionSpan{Offset: 148, Count: 10}, h.Span(RegionFieldData))
		require.Equal(t, RegionSpan{Offset: 158, Count: 12}, h.Span(RegionFieldIndices))
		require.Equal(t, RegionSpan{Offset: 170, Count: 4}, h.Span(RegionListIndices))
		require.NoError(t, h.CheckBounds(186, format.CountElements))
		require.ErrorIs(t, h.CheckBounds(185, format.CountElements), errs.ErrOutOfBounds)
		require.Equal(t, uint64(186), h.End(format.CountElements))
		require.Equal(t, uint64(174), h.End(format.CountBytes))
	})

	t.Run("Empty regions point past the previous region", func(t *testing.T) {
		h := Header{}
		counts := [regionCount]uint32{1, 0, 0, 0, 0, 0}

		require.NoError(t, h.SetRegions(counts, format.CountElements))

		for r := RegionFields; r <= RegionListIndices; r++ {
			require.Equal(t, uint32(68), h.Span(r).Offset, r.String())
			require.Zero(t, h.Span(r).Count)
		}
		require.Equal(t, uint64(68), h.End(format.CountElements))
	})

	t.Run("Too large", func(t *testing.T) {
		h := Header{}
		counts := [regionCount]uint32{0, 0, 0, MaxRegionSize, MaxRegionSize, 0}

		require.ErrorIs(t, h.SetRegions(counts, format.CountElements), errs.ErrRegionTooLarge)
	})
}
