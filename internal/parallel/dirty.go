package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// TileSize is the edge length in pixels of a dirty-tracking tile.
const TileSize = 64

// DirtyRegion tracks which canvas tiles need recompositing using an atomic
// bitmap, one bit per tile packed into uint64 words.
//
// All methods are safe for concurrent use without external synchronization.
type DirtyRegion struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
	width  int
	height int
}

// NewDirtyRegion creates a clean tracker for a width by height pixel canvas.
// Returns nil if the dimensions are not positive.
func NewDirtyRegion(width, height int) *DirtyRegion {
	if width <= 0 || height <= 0 {
		return nil
	}
	tx := (width + TileSize - 1) / TileSize
	ty := (height + TileSize - 1) / TileSize
	return &DirtyRegion{
		words:  make([]atomic.Uint64, (tx*ty+63)/64),
		tilesX: tx,
		tilesY: ty,
		width:  width,
		height: height,
	}
}

// Mark flags a single tile.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect flags every tile intersecting r (pixel coordinates).
func (d *DirtyRegion) MarkRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, d.width, d.height))
	if r.Empty() {
		return
	}
	for ty := r.Min.Y / TileSize; ty <= (r.Max.Y-1)/TileSize; ty++ {
		for tx := r.Min.X / TileSize; tx <= (r.Max.X-1)/TileSize; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkAll flags the whole canvas.
func (d *DirtyRegion) MarkAll() {
	d.MarkRect(image.Rect(0, 0, d.width, d.height))
}

// IsEmpty reports whether no tile is flagged.
func (d *DirtyRegion) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of flagged tiles.
func (d *DirtyRegion) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// Take clears the bitmap and returns the pixel bounding box of the tiles
// that were flagged, clipped to the canvas.
func (d *DirtyRegion) Take() image.Rectangle {
	var r image.Rectangle
	for wi := range d.words {
		word := d.words[wi].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &^= 1 << bit

			idx := wi*64 + bit
			tx, ty := idx%d.tilesX, idx/d.tilesX
			r = r.Union(image.Rect(tx*TileSize, ty*TileSize, (tx+1)*TileSize, (ty+1)*TileSize))
		}
	}
	return r.Intersect(image.Rect(0, 0, d.width, d.height))
}
