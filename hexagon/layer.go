package hexagon

// Layer is the tessellation for a single size. It is not mutated after Generate returned it.
type Layer struct {
	Size        float64
	Orientation Orientation
	// Extent is the requested extent. The hexagons may reach beyond it.
	Extent   Extent
	Hexagons []Hexagon
}

func (l *Layer) Len() int {
	return len(l.Hexagons)
}

// Bounds returns the extent of all hexagons together.
func (l *Layer) Bounds() Extent {
	if len(l.Hexagons) == 0 {
		return l.Extent
	}
	first := l.Hexagons[0].Vertices[0]
	b := Extent{first[0], first[1], first[0], first[1]}
	for i := range l.Hexagons {
		for _, v := range l.Hexagons[i].Vertices {
			b = b.Add(v)
		}
	}
	return b
}
