package util

import "runtime"

// GetOptimalPoolSize bounds parallel work (parser pools, definition lookups):
// min(max(NumCPU*2, 4), 32). Host lookups block on I/O and tree-sitter
// parsing blocks in CGO, so twice the core count keeps cores busy.
func GetOptimalPoolSize() int {
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
