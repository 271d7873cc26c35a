package processing

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/hexgrid/mapslicehelp"
)

type ColumnType string

const (
	Integer ColumnType = "INTEGER"
	Real    ColumnType = "REAL"
	Text    ColumnType = "TEXT"
)

// Schema is the ordered set of attribute columns of a layer.
type Schema struct {
	columns *orderedmap.OrderedMap[string, ColumnType]
}

func NewSchema() *Schema {
	return &Schema{columns: orderedmap.New[string, ColumnType]()}
}

// Add appends a column, or changes the type of an existing one in place.
func (s *Schema) Add(name string, ctype ColumnType) *Schema {
	s.columns.Set(name, ctype)
	return s
}

func (s *Schema) Len() int {
	return s.columns.Len()
}

func (s *Schema) Names() []string {
	return mapslicehelp.OrderedMapKeys(s.columns)
}

func (s *Schema) Types() []ColumnType {
	return mapslicehelp.OrderedMapValues(s.columns)
}

func (s *Schema) Type(name string) (ColumnType, bool) {
	return s.columns.Get(name)
}

// Column names of a hexagon layer
const (
	ColumnID   = "id"
	ColumnSize = "size"
	ColumnCol  = "col"
	ColumnRow  = "row"
	ColumnZKey = "zkey"
	ColumnUID  = "uid"
)

// HexagonSchema is the schema of every hexagon layer. The values of a hexagon feature follow this order.
func HexagonSchema() *Schema {
	return NewSchema().
		Add(ColumnID, Integer).
		Add(ColumnSize, Real).
		Add(ColumnCol, Integer).
		Add(ColumnRow, Integer).
		Add(ColumnZKey, Integer).
		Add(ColumnUID, Text)
}
