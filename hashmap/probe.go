package hashmap

// Probe returns the offset from the home slot tried on the k-th check.
type Probe = func(k int) int

// Linear probes consecutive slots.
func Linear(k int) int { return k }

// Quadratic probes at square offsets.
func Quadratic(k int) int { return k * k }

// Jump probes n consecutive slots, then jumps in strides of n.
func Jump(n int) Probe {
	return func(k int) int {
		if k < n {
			return k
		}
		return (k - n) * n
	}
}
