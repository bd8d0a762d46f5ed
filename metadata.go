package patch

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type MetaType string

const (
	// MTAttributes stores patch attributes
	MTAttributes MetaType = ".zattrs"
	// MTPatch is the key for storing array, dimension and coordinate
	// metadata of a patch
	MTPatch MetaType = ".zpatch"
	// dataKey holds the encoded data buffer
	dataKey = "data"
)

// FormatVersion is the version of the stored patch layout written by
// SavePatch.
const FormatVersion = 1

// MetaTyper is implemented by every metadata document stored alongside a
// patch's data.
type MetaTyper interface {
	MetaType() MetaType
}

var (
	_ MetaTyper = Attrs(nil)
	_ MetaTyper = (*PatchMeta)(nil)
)

var metaTypes = map[MetaType]struct{}{
	MTAttributes: {},
	MTPatch:      {},
}

// relies on the fact that all keynames are 7 characters long
func KeyMetaType(s string) (mt MetaType, ok bool) {
	if len(s) < 7 {
		return mt, false
	}
	mt = MetaType(s[len(s)-7:])
	_, ok = metaTypes[mt]
	return mt, ok
}

// Attrs holds patch attributes. Well-known keys are time_min and time_max
// (time.Time), time_units, history ([]string), and per-dimension
// <dim>_min, <dim>_max, d_<dim> and <dim>_units.
type Attrs map[string]interface{}

// Clone returns a shallow copy. The history slice is copied so appending to
// the clone never touches the original.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	if h, ok := a["history"].([]string); ok {
		out["history"] = append([]string(nil), h...)
	}
	return out
}

// Time returns attribute key as a time.Time.
func (a Attrs) Time(key string) (time.Time, bool) {
	t, ok := a[key].(time.Time)
	return t, ok
}

// History returns the recorded operations, oldest first.
func (a Attrs) History() []string {
	switch h := a["history"].(type) {
	case []string:
		return append([]string(nil), h...)
	case string:
		if h == "" {
			return nil
		}
		return []string{h}
	}
	return nil
}

func (Attrs) MetaType() MetaType { return MTAttributes }

// attrValue is the typed JSON form of one attribute, so times and durations
// survive a round trip.
type attrValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

const (
	attrNumber   = "number"
	attrString   = "string"
	attrStrings  = "strings"
	attrBool     = "bool"
	attrTime     = "time"
	attrDuration = "duration"
	attrNull     = "null"
)

func (a Attrs) MarshalJSON() ([]byte, error) {
	enc := make(map[string]attrValue, len(a))
	for k, v := range a {
		av, err := encodeAttr(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		enc[k] = av
	}
	return json.Marshal(enc)
}

func (a *Attrs) UnmarshalJSON(d []byte) error {
	enc := map[string]attrValue{}
	if err := json.Unmarshal(d, &enc); err != nil {
		return err
	}
	out := make(Attrs, len(enc))
	for k, av := range enc {
		v, err := decodeAttr(av)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = v
	}
	*a = out
	return nil
}

func encodeAttr(v interface{}) (attrValue, error) {
	var (
		typ string
		raw interface{} = v
	)
	switch x := v.(type) {
	case nil:
		typ = attrNull
	case string:
		typ = attrString
	case []string:
		typ = attrStrings
	case bool:
		typ = attrBool
	case time.Time:
		typ = attrTime
		raw = x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		typ = attrDuration
		raw = int64(x)
	default:
		f, ok := toFloat(v)
		if !ok {
			return attrValue{}, fmt.Errorf("%w: can't encode %T", ErrTypeMismatch, v)
		}
		typ = attrNumber
		raw = f
	}
	d, err := json.Marshal(raw)
	if err != nil {
		return attrValue{}, err
	}
	return attrValue{Type: typ, Value: d}, nil
}

func decodeAttr(av attrValue) (interface{}, error) {
	switch av.Type {
	case attrNull:
		return nil, nil
	case attrString:
		var s string
		err := json.Unmarshal(av.Value, &s)
		return s, err
	case attrStrings:
		var ss []string
		err := json.Unmarshal(av.Value, &ss)
		return ss, err
	case attrBool:
		var b bool
		err := json.Unmarshal(av.Value, &b)
		return b, err
	case attrTime:
		var s string
		if err := json.Unmarshal(av.Value, &s); err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	case attrDuration:
		var n int64
		err := json.Unmarshal(av.Value, &n)
		return time.Duration(n), err
	case attrNumber:
		var f float64
		err := json.Unmarshal(av.Value, &f)
		return f, err
	default:
		return nil, fmt.Errorf("unknown attribute type %q", av.Type)
	}
}

// PatchMeta is stored under the ".zpatch" key of a saved patch and holds
// everything needed to rebuild it besides attributes and data values.
type PatchMeta struct {
	// Version of the stored layout.
	Format int `json:"patch_format"`
	// Length of each dimension of the data array.
	Shape []int `json:"shape"`
	// Dimension names, in array axis order.
	Dims []string `json:"dims"`
	// Data type of the data array. Always "<f8".
	Dtype Dtype `json:"dtype"`
	// Compression applied to the data payload, or an empty ID for none.
	Compressor CompressionMeta `json:"compressor"`
	// Coordinate labels keyed by dimension name.
	Coords map[string]CoordMeta `json:"coords"`
}

func (PatchMeta) MetaType() MetaType { return MTPatch }

// CoordMeta is the stored form of a Coord. Temporal labels are integer
// nanoseconds since the Unix epoch with dtype "<M8[ns]".
type CoordMeta struct {
	Dtype  Dtype     `json:"dtype"`
	Units  string    `json:"units,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Times  []int64   `json:"times,omitempty"`
}

var (
	float64Dtype  = Dtype{ByteOrder: BOLittleEndian, BasicType: BTFloatingPoint, ByteSize: 8}
	datetimeDtype = Dtype{ByteOrder: BOLittleEndian, BasicType: BTDatetime, ByteSize: 8, Units: "[ns]"}
)

func newPatchMeta(p *Patch, comp CompressionMeta) *PatchMeta {
	m := &PatchMeta{
		Format:     FormatVersion,
		Shape:      p.Shape(),
		Dims:       p.Dims(),
		Dtype:      float64Dtype,
		Compressor: comp,
		Coords:     make(map[string]CoordMeta, len(p.coords)),
	}
	for name, c := range p.coords {
		cm := CoordMeta{Units: c.Units}
		if c.IsTime() {
			cm.Dtype = datetimeDtype
			cm.Times = make([]int64, len(c.Times))
			for i, t := range c.Times {
				cm.Times[i] = t.UnixNano()
			}
		} else {
			cm.Dtype = float64Dtype
			cm.Values = append([]float64{}, c.Values...)
		}
		m.Coords[name] = cm
	}
	return m
}

// coord rebuilds the Coord described by cm.
func (cm CoordMeta) coord() (Coord, error) {
	switch cm.Dtype.BasicType {
	case BTDatetime:
		if cm.Dtype.Units != "" && cm.Dtype.Units != "[ns]" {
			return Coord{}, fmt.Errorf("%w: unsupported datetime units %s", ErrTypeMismatch, cm.Dtype.Units)
		}
		times := make([]time.Time, len(cm.Times))
		for i, n := range cm.Times {
			times[i] = time.Unix(0, n).UTC()
		}
		return Coord{Times: times, Units: cm.Units}, nil
	case BTFloatingPoint:
		vals := cm.Values
		if vals == nil {
			vals = []float64{}
		}
		return Coord{Values: vals, Units: cm.Units}, nil
	default:
		return Coord{}, fmt.Errorf("%w: unsupported coordinate dtype %s", ErrTypeMismatch, cm.Dtype)
	}
}

// sortedKeys returns the keys of c in lexical order.
func sortedKeys(c Constraints) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
