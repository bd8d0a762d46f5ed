package patch

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HistoryFormatter renders one applied operation for a patch's history.
type HistoryFormatter interface {
	Format(p *Patch, op string, kwargs Constraints) string
}

// HistoryFormatterFunc adapts a function to the HistoryFormatter interface.
type HistoryFormatterFunc func(p *Patch, op string, kwargs Constraints) string

func (f HistoryFormatterFunc) Format(p *Patch, op string, kwargs Constraints) string {
	return f(p, op, kwargs)
}

// CallFormatter records operations as op(key=value, ...) with keys sorted.
var CallFormatter HistoryFormatter = HistoryFormatterFunc(formatCall)

func formatCall(_ *Patch, op string, kwargs Constraints) string {
	args := make([]string, 0, len(kwargs))
	for _, k := range sortedKeys(kwargs) {
		args = append(args, k+"="+formatValue(kwargs[k]))
	}
	return op + "(" + strings.Join(args, ", ") + ")"
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case Range:
		return x.String()
	case *Range:
		if x == nil {
			return "None"
		}
		return x.String()
	case Pair:
		return fmt.Sprintf("(%s, %s)", formatValue(x[0]), formatValue(x[1]))
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
