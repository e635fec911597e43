/*
Package metrics provides Prometheus instrumentation for bounding hierarchy trees.

Trees created with Config.Instrument report structural changes (insertions,
deletions, hull refreshes, full rebuilds), their current shape and the
queries run against them. All series are labelled with the tree's name.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.
*/
package metrics

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bvh'
func tracer() tracing.Trace {
	return tracing.Select("bvh")
}
