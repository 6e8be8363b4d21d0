package cohort

// movingAverage3 applies a centered 3-point moving average to w,
// clamping to the slice edges instead of padding with zeros. This is
// the same shape as indicators.MA in the teacher repository —
// summing a fixed window and dividing by its size — adapted to smooth
// a bucket-weight curve instead of a price series (spec §4.2,
// "generate_seasoned": "smooth with a 3-point moving average twice").
func movingAverage3(w []float64) []float64 {
	out := make([]float64, len(w))
	for i := range w {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(w)-1 {
			hi = len(w) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += w[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
