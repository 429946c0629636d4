package util

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Chunk splits n items into consecutive [start, end) ranges of at most size.
func Chunk(n, size int) [][2]int {
	if n <= 0 || size <= 0 {
		return nil
	}
	ranges := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		ranges = append(ranges, [2]int{start, min(start+size, n)})
	}
	return ranges
}
