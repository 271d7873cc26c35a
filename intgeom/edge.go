package intgeom

// Edge is a segment between two lattice positions.
// It is stored normalised, so the edge a->b equals the edge b->a.
type Edge [2]Point

// NewEdge returns the normalised edge between a and b
func NewEdge(a, b Point) Edge {
	if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
		a, b = b, a
	}
	return Edge{a, b}
}

// IsVertical returns true if both ends share the x index.
func (e Edge) IsVertical() bool { return e[0][0] == e[1][0] }

// IsHorizontal returns true if both ends share the y index.
func (e Edge) IsHorizontal() bool { return e[0][1] == e[1][1] }

// Edges returns the closed sequence of edges along the given ring of lattice positions.
func Edges(ring []Point) []Edge {
	n := len(ring)
	if n < 2 {
		return nil
	}
	edges := make([]Edge, 0, n)
	for i := range ring {
		edges = append(edges, NewEdge(ring[i], ring[(i+1)%n]))
	}
	return edges
}
