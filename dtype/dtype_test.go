package dtype_test

import (
	"testing"

	"github.com/BiologyTools/go-zarr/dtype"
	"github.com/stretchr/testify/require"
)

func TestParseNumpy(t *testing.T) {
	tests := []struct {
		input     string
		wantKind  dtype.Kind
		wantSize  int
		wantBig   bool
		expectErr bool
	}{
		{"<f4", dtype.Float32, 4, false, false},
		{"<i8", dtype.Int64, 8, false, false},
		{"|b1", dtype.Bool, 1, false, false},
		{">f4", dtype.Float32, 4, true, false},
		{"=u2", dtype.Uint16, 2, false, false},
		{"x2", 0, 0, false, true},
		{"<x4", 0, 0, false, true},
		{"<i", 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := dtype.ParseNumpy(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKind, d.Kind)
			require.Equal(t, tt.wantSize, d.Size())
			if tt.wantBig {
				require.Equal(t, dtype.BigEndian, d.Endian)
			} else {
				require.Equal(t, dtype.LittleEndian, d.Endian)
			}
		})
	}
}

func TestParseV3(t *testing.T) {
	d, err := dtype.ParseV3("uint16", dtype.BigEndian)
	require.NoError(t, err)
	require.Equal(t, dtype.Uint16, d.Kind)
	require.Equal(t, 2, d.Size())
	require.Equal(t, dtype.BigEndian, d.Endian)

	_, err = dtype.ParseV3("complex64", dtype.LittleEndian)
	require.Error(t, err)
}
