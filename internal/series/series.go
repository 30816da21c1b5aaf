// Package series implements the bounded sliding window used for the
// streaming metric datapoints.
package series

// AppendAndTrim appends value to the end of s and, if the result exceeds
// max, drops the single oldest element. Order of the remaining elements is
// preserved. max must be at least 1.
func AppendAndTrim(s []int64, value int64, max int) []int64 {
	s = append(s, value)
	if len(s) > max {
		s = s[1:]
	}
	return s
}
