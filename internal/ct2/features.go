package ct2

import "fmt"

// Features is a dense float buffer with shape information, used to pass mel
// spectrogram input to the Whisper engine. Shape is [batch, mels, frames].
type Features struct {
	shape []int
	data  []float32
}

// NewFeatures validates the shape against the buffer length and copies both.
func NewFeatures(shape []int, data []float32) (*Features, error) {
	if len(shape) != 3 {
		return nil, invalidArgumentError{msg: fmt.Sprintf("features shape must have 3 dims, got %d", len(shape))}
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, invalidArgumentError{msg: fmt.Sprintf("features shape dim must be positive, got %d", d)}
		}
		n *= d
	}
	if n != len(data) {
		return nil, invalidArgumentError{msg: fmt.Sprintf("features shape wants %d values, buffer has %d", n, len(data))}
	}
	return &Features{
		shape: append([]int(nil), shape...),
		data:  append([]float32(nil), data...),
	}, nil
}

// BatchSize returns the leading shape dimension.
func (f *Features) BatchSize() int { return f.shape[0] }

// Shape returns a copy of the shape.
func (f *Features) Shape() []int { return append([]int(nil), f.shape...) }
