// Package batch partitions identifier lists into request-sized groups
package batch

// Plan splits ids into ordered batches of at most size elements,
// preserving relative order. Empty input returns a single nil batch:
// the sentinel downstream meaning "issue one request without ID
// parameters". A size below 1 is treated as 1
func Plan(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return [][]string{nil}
	}
	if size < 1 {
		size = 1
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end:end])
	}
	return out
}
