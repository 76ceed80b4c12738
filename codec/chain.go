package codec

import "fmt"

// Chain is an ordered codec pipeline plus the element size needed by the
// Boundary step, per spec.md §4.3. The first entry is conventionally the
// Boundary codec, but Chain does not enforce that; metadata.ArrayMetadata
// is responsible for always placing it first.
type Chain struct {
	Codecs   []Codec
	ElemSize int
}

// NewChain builds a pipeline over codecs for elements of elemSize bytes.
func NewChain(elemSize int, codecs ...Codec) Chain {
	return Chain{Codecs: codecs, ElemSize: elemSize}
}

// Decode applies the chain in reverse pipeline order: the last-applied
// encode step is the first to be undone.
func (c Chain) Decode(data []byte) ([]byte, error) {
	for i := len(c.Codecs) - 1; i >= 0; i-- {
		var err error
		data, err = c.Codecs[i].Decode(data, c.ElemSize)
		if err != nil {
			return nil, fmt.Errorf("codec chain: step %d (%s): %w", i, c.Codecs[i].Kind, err)
		}
	}
	return data, nil
}

// Encode applies the chain in forward order.
func (c Chain) Encode(data []byte) ([]byte, error) {
	for i, step := range c.Codecs {
		var err error
		data, err = step.Encode(data, c.ElemSize)
		if err != nil {
			return nil, fmt.Errorf("codec chain: step %d (%s): %w", i, step.Kind, err)
		}
	}
	return data, nil
}
