package cache

import (
	"fmt"

	"github.com/golang/snappy"
)

// Codec encodes cached values at rest
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	Name() string
}

// NewCodec returns the snappy codec when compress is set, else a pass-through
func NewCodec(compress bool) Codec {
	if compress {
		return snappyCodec{}
	}
	return plainCodec{}
}

type plainCodec struct{}

func (plainCodec) Encode(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (plainCodec) Decode(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (plainCodec) Name() string { return "none" }

type snappyCodec struct{}

func (snappyCodec) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return decoded, nil
}

func (snappyCodec) Name() string { return "snappy" }
