package face

import "math"

// Distance returns the Euclidean distance between two descriptors.
// Descriptors of different lengths never match.
func Distance(a, b Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// MatchAny reports whether the candidate descriptor is within tolerance of
// any reference. Lower tolerance means a stricter match.
func MatchAny(candidate Descriptor, refs []Descriptor, tolerance float64) bool {
	for _, ref := range refs {
		if Distance(candidate, ref) <= tolerance {
			return true
		}
	}
	return false
}
