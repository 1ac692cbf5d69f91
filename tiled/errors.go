package tiled

import "errors"

// ErrEmptyLevels is returned by NewBuilder when given no levels.
var ErrEmptyLevels = errors.New("tiled: levels list is empty")

// ErrOversizedTile is returned by AddTile when the tile exceeds
// tileSize+1 in either dimension (the +1 being the seam overlap row/col
// spec §4.4 expects the caller to include).
var ErrOversizedTile = errors.New("tiled: tile dimensions exceed tileSize+1")
