package integrator

import "math/rand"

// A Sampler supplies the offsets used for placing samples inside
// stratification cells. Values are in [0, 1).
type Sampler interface {
	Float32() float32
}

type centerSampler struct{}

func (centerSampler) Float32() float32 {
	return 0.5
}

// Place every sample at the center of its cell.
func CenterSampler() Sampler {
	return centerSampler{}
}

// Place samples at uniformly distributed random offsets.
func RandomSampler(seed int64) Sampler {
	return rand.New(rand.NewSource(seed))
}
