package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the EDN subset used by CLI payloads: maps with keyword keys, vectors,
// strings, integers, floats, booleans and nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	e := ednEncoder{pretty: pretty}
	e.value(&buf, x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
}

func (e ednEncoder) value(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.seq(buf, '[', ']', len(t), level, func(i int) { e.value(buf, t[i], level+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq(buf, '{', '}', len(keys), level, func(i int) {
			buf.WriteString(keyword(keys[i]))
			buf.WriteByte(' ')
			e.value(buf, t[keys[i]], level+1)
		})
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) seq(buf *bytes.Buffer, open, close byte, n, level int, item func(int)) {
	buf.WriteByte(open)
	for i := 0; i < n; i++ {
		if e.pretty {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat("  ", level+1))
		} else if i > 0 {
			buf.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty && n > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", level))
	}
	buf.WriteByte(close)
}

// keyword turns a JSON field name into an EDN keyword. Keys that are not valid keyword
// names are written as strings.
func keyword(k string) string {
	if k == "" {
		return `""`
	}
	for i, r := range k {
		ok := r == '-' || r == '_' || r == '.' || r == '?' || r == '!' || r == '*' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return strconv.Quote(k)
		}
	}
	return ":" + k
}
