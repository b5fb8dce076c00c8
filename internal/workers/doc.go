/*
Package workers sizes the thumbnail warm-up pool.

Sizes are derived from GOMAXPROCS rather than runtime.NumCPU, so a container
CPU limit is honoured:

	n := workers.ForCPU(8)  // poster decoding and encoding
	n := workers.ForIO(16)  // stat-heavy work

An explicit size always wins. It comes from the THUMBNAIL_WORKERS
environment variable or from [SetOverride], which startup calls with the
--thumbnail-workers flag:

	THUMBNAIL_WORKERS=2 gif-viewer /srv/gifs

The override is still capped by the limit passed to the helper.
*/
package workers
