package swrast

// lineWalk is an incremental (Bresenham) walk from one integer point to another. The error term is kept in
// fraction, scaled by 2 so that everything stays in integers. Every Step advances the major axis by one and the
// minor axis by at most one, so the visited points are 8-connected.
type lineWalk struct {
	x, y         int // Current point
	x1, y1       int // End point
	stepX, stepY int
	dx, dy       int
	fraction     int
	horizontal   bool // True if X is the major axis
	remaining    int  // Steps left until the end point
	done         bool // True once the end point has been consumed
}

func newLineWalk(x0, y0, x1, y1 int) lineWalk {

	dx := x1 - x0
	dy := y1 - y0

	walk := lineWalk{
		x:     x0,
		y:     y0,
		x1:    x1,
		y1:    y1,
		stepX: 1,
		stepY: 1,
	}

	if dx < 0 {
		walk.stepX = -1
	}
	if dy < 0 {
		walk.stepY = -1
	}

	walk.dx = dx * 2 * walk.stepX
	walk.dy = dy * 2 * walk.stepY
	walk.horizontal = walk.dx > walk.dy

	if walk.horizontal {
		walk.fraction = walk.dy - (walk.dx >> 1)
		walk.remaining = walk.dx / 2
	} else {
		walk.fraction = walk.dx - (walk.dy >> 1)
		walk.remaining = walk.dy / 2
	}

	return walk

}

// AtEnd returns true if the current point is the end point.
func (walk *lineWalk) AtEnd() bool {
	return walk.remaining == 0
}

// Step advances the walk to the next point. It returns false (and doesn't move) if the walk is already at the end point.
func (walk *lineWalk) Step() bool {

	if walk.AtEnd() {
		return false
	}

	if walk.horizontal {
		walk.x += walk.stepX
		if walk.fraction >= 0 {
			walk.y += walk.stepY
			walk.fraction -= walk.dx
		}
		walk.fraction += walk.dy
	} else {
		if walk.fraction >= 0 {
			walk.x += walk.stepX
			walk.fraction -= walk.dy
		}
		walk.y += walk.stepY
		walk.fraction += walk.dx
	}

	walk.remaining--
	return true

}

// Row consumes every point of the walk that lies on the current row, and returns the row along with the smallest and
// largest X visited on it. Afterwards, the walk rests on the first point of the next row, or is done. ok is false if
// the walk was already done.
func (walk *lineWalk) Row() (y, minX, maxX int, ok bool) {

	if walk.done {
		return 0, 0, 0, false
	}

	y = walk.y
	minX, maxX = walk.x, walk.x

	for {
		if !walk.Step() {
			walk.done = true
			break
		}
		if walk.y != y {
			break
		}
		if walk.x < minX {
			minX = walk.x
		}
		if walk.x > maxX {
			maxX = walk.x
		}
	}

	return y, minX, maxX, true

}

// rowAt is Row, but only if the walk is currently on row y.
func (walk *lineWalk) rowAt(y int) (minX, maxX int, ok bool) {
	if walk.done || walk.y != y {
		return 0, 0, false
	}
	_, minX, maxX, ok = walk.Row()
	return minX, maxX, ok
}

// WalkLine calls visit for every point on the 8-connected line from (x0, y0) to (x1, y1), in order and including both ends.
func WalkLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	walk := newLineWalk(x0, y0, x1, y1)
	visit(walk.x, walk.y)
	for walk.Step() {
		visit(walk.x, walk.y)
	}
}
