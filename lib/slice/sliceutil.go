package sliceutil

// Map applies f to every element of v, keeping their order.
func Map[From any, To any](v []From, f func(From) To) []To {
	out := make([]To, len(v))
	for idx := range v {
		out[idx] = f(v[idx])
	}
	return out
}
