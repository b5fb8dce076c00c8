// Package media renders poster thumbnails for indexed GIFs.
//
// A poster is the first frame of the animation composed onto the full
// logical screen, scaled to fit 200x200 and encoded as JPEG. Posters are
// cached on disk under a key derived from the GIF's path, size and
// modification time, so a replaced file gets a fresh poster.
package media
