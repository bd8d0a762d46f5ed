package patch

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

const (
	arrowDataField = "data"
	arrowShapeKey  = "shape"
)

// WriteArrow writes the data of a as a single-column Arrow IPC stream. The
// array shape is kept in the schema metadata.
func WriteArrow(w io.Writer, a *Array) error {
	mem := memory.NewGoAllocator()

	shape := make([]string, a.Ndim())
	for i, n := range a.Shape() {
		shape[i] = strconv.Itoa(n)
	}
	md := arrow.NewMetadata([]string{arrowShapeKey}, []string{strings.Join(shape, ",")})
	schema := arrow.NewSchema([]arrow.Field{
		{Name: arrowDataField, Type: arrow.PrimitiveTypes.Float64},
	}, &md)

	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.AppendValues(a.Values(), nil)
	col := b.NewFloat64Array()
	defer col.Release()

	record := array.NewRecord(schema, []arrow.Array{col}, int64(col.Len()))
	defer record.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("writing arrow record: %w", err)
	}
	return writer.Close()
}

// ReadArrow reads an array written by WriteArrow.
func ReadArrow(r io.Reader) (*Array, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("opening arrow stream: %w", err)
	}
	defer rdr.Release()

	shape, err := arrowShape(rdr.Schema())
	if err != nil {
		return nil, err
	}

	var values []float64
	for rdr.Next() {
		rec := rdr.Record()
		if rec.NumCols() != 1 {
			return nil, fmt.Errorf("%w: expected 1 arrow column, got %d", ErrShapeMismatch, rec.NumCols())
		}
		col, ok := rec.Column(0).(*array.Float64)
		if !ok {
			return nil, fmt.Errorf("%w: arrow column is %s, not float64", ErrTypeMismatch, rec.Column(0).DataType())
		}
		values = append(values, col.Float64Values()...)
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("reading arrow stream: %w", err)
	}
	if values == nil {
		values = []float64{}
	}
	return NewArray(values, shape...)
}

func arrowShape(schema *arrow.Schema) ([]int, error) {
	md := schema.Metadata()
	i := md.FindKey(arrowShapeKey)
	if i < 0 {
		return nil, fmt.Errorf("%w: arrow schema has no shape", ErrShapeMismatch)
	}
	raw := md.Values()[i]
	if raw == "" {
		return []int{}, nil
	}
	parts := strings.Split(raw, ",")
	shape := make([]int, len(parts))
	for j, s := range parts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bad shape %q", ErrShapeMismatch, raw)
		}
		shape[j] = n
	}
	return shape, nil
}
