package overlay_test

import (
	"context"
	"testing"

	"github.com/BiologyTools/go-zarr/group"
	"github.com/BiologyTools/go-zarr/overlay"
	"github.com/BiologyTools/go-zarr/store"
	"github.com/stretchr/testify/require"
)

func v3ArrayDoc(shape string) []byte {
	return []byte(`{
		"zarr_format": 3, "node_type": "array",
		"shape": [` + shape + `], "data_type": "uint8",
		"chunk_grid": {"name":"regular","configuration":{"chunk_shape":[` + shape + `]}},
		"chunk_key_encoding": {"name":"default","configuration":{"separator":"/"}},
		"codecs": [{"name":"bytes","configuration":{"endian":"little"}}],
		"fill_value": 0
	}`)
}

func TestInferAxesSuffix(t *testing.T) {
	axes, err := overlay.InferAxes(3)
	require.NoError(t, err)
	require.Equal(t, []overlay.Axis{{Name: "z"}, {Name: "y"}, {Name: "x"}}, axes)

	axes, err = overlay.InferAxes(5)
	require.NoError(t, err)
	require.Equal(t, "t", axes[0].Name)
	require.Equal(t, "x", axes[4].Name)
}

func TestInferAxesRejectsBeyondRank5(t *testing.T) {
	_, err := overlay.InferAxes(6)
	require.Error(t, err)
}

func TestClassifyMultiscaleImage(t *testing.T) {
	k, err := overlay.Classify([]byte(`{"multiscales":[{"datasets":[]}]}`))
	require.NoError(t, err)
	require.Equal(t, overlay.KindMultiscaleImage, k)
}

func TestClassifyPlate(t *testing.T) {
	k, err := overlay.Classify([]byte(`{"plate":{"rows":[],"columns":[],"wells":[]}}`))
	require.NoError(t, err)
	require.Equal(t, overlay.KindPlate, k)
}

func TestClassifyLabelGroupPrefersImageLabel(t *testing.T) {
	k, err := overlay.Classify([]byte(`{"multiscales":[{"datasets":[]}],"image-label":{}}`))
	require.NoError(t, err)
	require.Equal(t, overlay.KindLabelGroup, k)
}

func TestClassifyUnknown(t *testing.T) {
	_, err := overlay.Classify([]byte(`{"foo":"bar"}`))
	require.ErrorIs(t, err, overlay.ErrUnknownKind)
}

func TestParseMultiscaleImageResolutionLevel(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, "0/zarr.json", v3ArrayDoc("4,4")))
	require.NoError(t, st.Write(ctx, "1/zarr.json", v3ArrayDoc("2,2")))

	attrs := []byte(`{
		"multiscales": [{
			"axes": [{"name":"y","type":"space"},{"name":"x","type":"space"}],
			"datasets": [
				{"path":"0","coordinateTransformations":[{"type":"scale","scale":[1,1]}]},
				{"path":"1","coordinateTransformations":[{"type":"scale","scale":[2,2]}]}
			],
			"coordinateTransformations": [{"type":"translation","translation":[10,20]}]
		}]
	}`)

	nav := group.New(st)
	img, err := overlay.ParseMultiscaleImage(nav, "", attrs)
	require.NoError(t, err)
	require.Len(t, img.Datasets, 2)

	arr, mapping, err := img.ResolutionLevel(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 2}, arr.Metadata().Shape)
	require.Equal(t, []float64{2, 2}, mapping.Scale)
	require.Equal(t, []float64{10, 20}, mapping.Translation)
}

func TestParsePlateAndWell(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, "A/1/.zgroup", []byte(`{"zarr_format":2}`)))
	require.NoError(t, st.Write(ctx, "A/1/.zattrs", []byte(`{"well":{"images":[{"path":"0"}]}}`)))

	plateAttrs := []byte(`{
		"plate": {
			"rows": [{"name":"A"}],
			"columns": [{"name":"1"}],
			"wells": [{"path":"A/1","rowIndex":0,"columnIndex":0}]
		}
	}`)

	nav := group.New(st)
	plate, err := overlay.ParsePlate(nav, "", plateAttrs)
	require.NoError(t, err)
	require.Len(t, plate.Wells, 1)

	well, err := plate.OpenWell(ctx, plate.Wells[0])
	require.NoError(t, err)
	require.Len(t, well.Fields, 1)
	require.Equal(t, "0", well.Fields[0].Path)
}

func TestParseLabelGroup(t *testing.T) {
	attrs := []byte(`{
		"multiscales": [{"datasets": [{"path":"0"}]}],
		"image-label": {
			"colors": [{"label-value":1,"rgba":[255,0,0,255]}],
			"source": {"image":"../../0"}
		}
	}`)

	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "labels/cells/0/zarr.json", v3ArrayDoc("2")))

	nav := group.New(st)
	lg, err := overlay.ParseLabelGroup(nav, "labels/cells", attrs)
	require.NoError(t, err)
	require.Len(t, lg.Colors, 1)
	require.Equal(t, 1, lg.Colors[0].LabelValue)
	require.Equal(t, "../../0", lg.SourceImage)

	arr, _, err := lg.ResolutionLevel(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, arr.Metadata().Shape)
}
