package state

// Box is an axis-aligned bounding rectangle.
type Box struct {
	X, Y, W, H float64
}

// PointsBox computes the bounding box of a flat x,y coordinate sequence.
// An empty sequence yields the zero box.
func PointsBox(points []float64) Box {
	if len(points) < 2 {
		return Box{}
	}
	minX, minY := points[0], points[1]
	maxX, maxY := points[0], points[1]
	for i := 2; i+1 < len(points); i += 2 {
		if points[i] < minX {
			minX = points[i]
		}
		if points[i] > maxX {
			maxX = points[i]
		}
		if points[i+1] < minY {
			minY = points[i+1]
		}
		if points[i+1] > maxY {
			maxY = points[i+1]
		}
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Overlaps reports whether two boxes intersect.
func (b Box) Overlaps(o Box) bool {
	return !(b.X+b.W < o.X || o.X+o.W < b.X || b.Y+b.H < o.Y || o.Y+o.H < b.Y)
}

// Union returns the smallest box covering both.
func (b Box) Union(o Box) Box {
	minX, minY := b.X, b.Y
	if o.X < minX {
		minX = o.X
	}
	if o.Y < minY {
		minY = o.Y
	}
	maxX, maxY := b.X+b.W, b.Y+b.H
	if o.X+o.W > maxX {
		maxX = o.X + o.W
	}
	if o.Y+o.H > maxY {
		maxY = o.Y + o.H
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Pad grows the box by the given margin on every side.
func (b Box) Pad(margin float64) Box {
	return Box{X: b.X - margin, Y: b.Y - margin, W: b.W + 2*margin, H: b.H + 2*margin}
}
