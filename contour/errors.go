package contour

import "errors"

// ErrEmptyLevels is returned when Extract is called with no levels.
var ErrEmptyLevels = errors.New("contour: levels list is empty")
