package mapray

import "sync"

// BinaryCopyFunc fills dst with a tile's source bytes. The caller has
// already sized dst to the byte length given at tile creation.
type BinaryCopyFunc func(dst []byte)

// ClipResultFunc delivers one Clip call's result: a little-endian
// mesh-section buffer (positions, triangles, optional normals and
// colors) with the same layout as a tile's own mesh section.
type ClipResultFunc func(numVertices, numTriangles uint32, data []byte)

// RayResultFunc delivers one ray query's result. distance == limit
// means no intersection; feature id words are always zero.
type RayResultFunc func(distance, featureIDLo, featureIDHi float64)

// callbacks holds the process-wide host callback registry: installed
// once by Initialize and read-only afterward.
//
// Grounded on gogpu-gg's surface.Registry (surface/registry.go),
// narrowed from a named-backend table to three fixed call sites since
// the host surface installs exactly these three callbacks rather than
// an open set of pluggable backends.
var callbacks struct {
	mu         sync.RWMutex
	binaryCopy BinaryCopyFunc
	clipResult ClipResultFunc
	rayResult  RayResultFunc
}

// Initialize installs the three host callbacks. It must be called
// exactly once, before any tile or converter is created; calling it
// again replaces the previous callbacks.
func Initialize(binaryCopy BinaryCopyFunc, clipResult ClipResultFunc, rayResult RayResultFunc) {
	callbacks.mu.Lock()
	defer callbacks.mu.Unlock()
	callbacks.binaryCopy = binaryCopy
	callbacks.clipResult = clipResult
	callbacks.rayResult = rayResult
}

func getBinaryCopy() BinaryCopyFunc {
	callbacks.mu.RLock()
	defer callbacks.mu.RUnlock()
	return callbacks.binaryCopy
}

func getClipResult() ClipResultFunc {
	callbacks.mu.RLock()
	defer callbacks.mu.RUnlock()
	return callbacks.clipResult
}

func getRayResult() RayResultFunc {
	callbacks.mu.RLock()
	defer callbacks.mu.RUnlock()
	return callbacks.rayResult
}
