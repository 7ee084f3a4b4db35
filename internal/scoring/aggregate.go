package scoring

import "fmt"

// Sum adds vectors elementwise. measurementCount fixes the expected length, so
// an empty input still yields a zero vector of the right shape.
func Sum(vectors []ScoreVector, measurementCount int) (ScoreVector, error) {
	if err := checkShape(vectors, measurementCount); err != nil {
		return nil, err
	}
	out := Zero(measurementCount)
	for _, v := range vectors {
		for i, x := range v {
			out[i] += x
		}
	}
	return out, nil
}

// Average is Sum divided by the number of vectors. No vectors averages to
// zero. Each slot is computed as first + mean(delta from first), which equals
// sum/count and returns a uniform input unchanged.
func Average(vectors []ScoreVector, measurementCount int) (ScoreVector, error) {
	if err := checkShape(vectors, measurementCount); err != nil {
		return nil, err
	}
	out := Zero(measurementCount)
	if len(vectors) == 0 {
		return out, nil
	}

	n := float64(len(vectors))
	first := vectors[0]
	for i := range out {
		var delta float64
		for _, v := range vectors[1:] {
			delta += v[i] - first[i]
		}
		out[i] = first[i] + delta/n
	}
	return out, nil
}

func checkShape(vectors []ScoreVector, measurementCount int) error {
	if measurementCount < 0 {
		return fmt.Errorf("%w: negative measurement count %d", ErrShapeMismatch, measurementCount)
	}
	for i, v := range vectors {
		if len(v) != measurementCount {
			return fmt.Errorf("%w: vector %d has length %d, want %d", ErrShapeMismatch, i, len(v), measurementCount)
		}
	}
	return nil
}
