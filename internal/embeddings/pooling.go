package embeddings

// meanPool averages the token states selected by the attention mask.
// hidden is laid out as [seqLen][dim].
func meanPool(hidden []float32, mask []int64, dim int) []float32 {
	out := make([]float32, dim)
	var n float32
	for i, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[i*dim : (i+1)*dim]
		for j, v := range row {
			out[j] += v
		}
		n++
	}
	if n == 0 {
		return out
	}
	for j := range out {
		out[j] /= n
	}
	return out
}
