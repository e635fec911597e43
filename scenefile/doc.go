/*
Package scenefile loads batches of scene items from JSON or YAML files.

A scene file lists named boxes, the query policies they are disabled for and
the scene-graph path of their owner:

	name: garage
	items:
	  - name: body
	    lower: [0, 0, 0]
	    upper: [4, 2, 1.5]
	    owner: /world/car
	  - name: light
	    lower: [1, 1, 3]
	    upper: [1.2, 1.2, 3.2]
	    disabled: [collide]
	    pickable: false

Items of a loaded scene implement bvh.Item and may be handed to a tree
directly. Owner paths are turned into a hierarchy of groups, so items of
"/world/car/wheel" and "/world/car" are related for collision exclusion.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.
*/
package scenefile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bvh'
func tracer() tracing.Trace {
	return tracing.Select("bvh")
}
