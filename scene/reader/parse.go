package reader

import (
	"fmt"
	"strconv"

	"github.com/achilleasa/raytra/types"
)

// Parse the count float arguments that follow the first argIndex line tokens.
func parseFloats(lineTokens []string, argIndex, count int) ([]float32, error) {
	if len(lineTokens)-argIndex != count {
		return nil, fmt.Errorf(`unsupported syntax for "%s"; expected %d arguments; got %d`, directive(lineTokens, argIndex), count, len(lineTokens)-argIndex)
	}

	out := make([]float32, count)
	for index := range out {
		val, err := strconv.ParseFloat(lineTokens[argIndex+index], 32)
		if err != nil {
			return nil, fmt.Errorf(`could not parse argument %d of "%s": %s`, index+1, directive(lineTokens, argIndex), err)
		}
		out[index] = float32(val)
	}
	return out, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Join the leading directive tokens (e.g. "l p") for error messages.
func directive(lineTokens []string, argIndex int) string {
	out := lineTokens[0]
	for _, tok := range lineTokens[1:argIndex] {
		out += " " + tok
	}
	return out
}

func vec3At(vals []float32, offset int) types.Vec3 {
	return types.XYZ(vals[offset], vals[offset+1], vals[offset+2])
}

func pointAt(vals []float32, offset int) types.Point {
	return types.P(vals[offset], vals[offset+1], vals[offset+2])
}
