// Package pool provides object pools for render-path allocations.
package pool

import (
	"strings"
	"sync"
)

// builderPool reuses string builders across frames. The sheet is
// rebuilt as one string many times a second, and pooling the builders
// keeps that from churning the allocator.
var builderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// GetStringBuilder returns an empty string builder from the pool.
func GetStringBuilder() *strings.Builder {
	return builderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets the builder and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	builderPool.Put(sb)
}
