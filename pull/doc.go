// Package pull implements lazy single-pass element producers and the query
// pipeline built on them.
//
// A Puller is a forward-only cursor with a size hint:
//
//	for p.Valid() {
//		use(p.Current())
//		p.Next()
//	}
//
// Select and Where compose pullers. Terminal sinks (Count, Any, First, Sum, ...)
// drain them. Pullers are single-use: once a stage wraps a puller, only the stage
// may advance it. Any mutation of the source container invalidates its pullers.
package pull
