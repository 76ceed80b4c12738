package codec_test

import (
	"testing"

	"github.com/BiologyTools/go-zarr/codec"
	"github.com/stretchr/testify/require"
)

func TestBoundaryEndianSwap(t *testing.T) {
	// scenario 2, spec.md §8: uint16 [0x0102, 0x0304] stored big-endian.
	// Host (amd64/arm64) is little-endian, so declaring big swaps bytes.
	hostBytes := []byte{0x02, 0x01, 0x04, 0x03}

	c := codec.NewBoundary(codec.BigEndian)
	wire, err := c.Encode(hostBytes, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, wire)

	back, err := c.Decode(wire, 2)
	require.NoError(t, err)
	require.Equal(t, hostBytes, back)
}

func TestBoundaryLittleEndianIsNoop(t *testing.T) {
	c := codec.NewBoundary(codec.LittleEndian)
	data := []byte{1, 2, 3, 4}
	out, err := c.Encode(data, 4)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestGzipRoundTrip(t *testing.T) {
	c := codec.NewGzip(6)
	data := []byte("the quick brown fox jumps over the lazy dog, repeated. the quick brown fox jumps over the lazy dog.")

	enc, err := c.Encode(data, 1)
	require.NoError(t, err)
	require.NotEqual(t, data, enc)

	dec, err := c.Decode(enc, 1)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestZstdRoundTrip(t *testing.T) {
	c := codec.NewZstd(3)
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7)
	}

	enc, err := c.Encode(data, 1)
	require.NoError(t, err)

	dec, err := c.Decode(enc, 1)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestChainDecodeAppliesReverseOrder(t *testing.T) {
	chain := codec.NewChain(2, codec.NewBoundary(codec.BigEndian), codec.NewGzip(6))

	data := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04}
	wire, err := chain.Encode(data)
	require.NoError(t, err)

	back, err := chain.Decode(wire)
	require.NoError(t, err)
	require.Equal(t, data, back)
}
