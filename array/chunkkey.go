package array

import (
	"strconv"
	"strings"

	"github.com/BiologyTools/go-zarr/metadata"
)

// chunkKey builds the store key for the chunk at chunkCoord, per spec.md
// §4.4.1:
//
//	v3: "{arrayPath}/c{sep}{coord[0]}{sep}{coord[1]}..."
//	v2: "{arrayPath}/{coord[0]}{sep}{coord[1]}..."
func chunkKey(arrayPath string, chunkCoord []int64, layout metadata.LayoutVersion, sep metadata.ChunkKeySeparator) string {
	var b strings.Builder
	b.Grow(len(arrayPath) + len(chunkCoord)*4 + 4)

	if arrayPath != "" {
		b.WriteString(arrayPath)
		b.WriteByte('/')
	}
	if layout == metadata.V3 {
		b.WriteByte('c')
		if len(chunkCoord) > 0 {
			b.WriteByte(byte(sep))
		}
	}
	for i, c := range chunkCoord {
		if i > 0 {
			b.WriteByte(byte(sep))
		}
		b.WriteString(strconv.FormatInt(c, 10))
	}
	return b.String()
}

// V2ProbeKeys returns the two candidate keys for a rank-N all-zero chunk
// coordinate, used by the group navigator's separator probe (spec.md
// §4.4.1 / §8 scenario 6): "0/0/.../0" and "0.0...0".
func V2ProbeKeys(arrayPath string, rank int) (slashKey, dotKey string) {
	coord := make([]int64, rank)
	return chunkKey(arrayPath, coord, metadata.V2, metadata.SeparatorSlash),
		chunkKey(arrayPath, coord, metadata.V2, metadata.SeparatorDot)
}
