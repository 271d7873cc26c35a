package geomhelp

import "math"

// vector2d represents the vector between two points in 2D space
type vector2d struct {
	x float64
	y float64
}

// dot product of vector with another vector
func (vec vector2d) dot(otherVec vector2d) float64 {
	return (vec.x * otherVec.x) + (vec.y * otherVec.y)
}

// z component of the cross product
func (vec vector2d) cross(otherVec vector2d) float64 {
	return (vec.x * otherVec.y) - (vec.y * otherVec.x)
}

// magnitude of vector
func (vec vector2d) magnitude() float64 {
	return math.Hypot(vec.x, vec.y)
}

// angle between two vectors in degrees (range 0-180)
func (vec vector2d) angleTo(otherVec vector2d) float64 {
	m := vec.magnitude() * otherVec.magnitude()
	if m == 0 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, vec.dot(otherVec)/m))
	return math.Acos(cos) * (180 / math.Pi)
}
