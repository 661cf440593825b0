package extract

import (
	"bytes"
	"encoding/json"

	"github.com/mvp-joe/js-analyzer/internal/syntax"
)

// Record is one row of the trace. Nil pointer fields are absent.
type Record struct {
	Line      int
	Kind      string
	Name      *string
	Condition *string
	Value     *string
}

// str returns a pointer to a copy of s.
func str(s string) *string { return &s }

// Which columns a kind reports. A reported-but-nil column is serialized as
// null, an unreported one is omitted.
var columns = map[string]struct{ name, condition, value bool }{
	syntax.KindIdentifier:   {name: true},
	syntax.KindDeclarator:   {name: true, value: true},
	syntax.KindAssignment:   {name: true, value: true},
	syntax.KindUpdate:       {name: true, value: true},
	syntax.KindIf:           {condition: true},
	syntax.KindWhile:        {condition: true},
	syntax.KindFor:          {condition: true},
	syntax.KindFunctionDecl: {name: true},
	syntax.KindReturn:       {value: true},
}

// MarshalJSON writes {"Line":..,"Type":..} followed by the columns the
// record's kind reports, in Name, Condition, Value order.
func (r Record) MarshalJSON() ([]byte, error) {
	cols, known := columns[r.Kind]

	var buf bytes.Buffer
	buf.WriteString(`{"Line":`)
	line, _ := json.Marshal(r.Line)
	buf.Write(line)
	buf.WriteString(`,"Type":`)
	kind, err := marshalString(r.Kind)
	if err != nil {
		return nil, err
	}
	buf.Write(kind)

	write := func(key string, reported bool, v *string) error {
		// Records of unknown kinds keep whatever columns they carry.
		if !reported && (known || v == nil) {
			return nil
		}
		buf.WriteString(`,"` + key + `":`)
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		b, err := marshalString(*v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	if err := write("Name", cols.name, r.Name); err != nil {
		return nil, err
	}
	if err := write("Condition", cols.condition, r.Condition); err != nil {
		return nil, err
	}
	if err := write("Value", cols.value, r.Value); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s without escaping <, > and &, which are common in
// conditions.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Line      int
		Type      string
		Name      *string
		Condition *string
		Value     *string
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{Line: raw.Line, Kind: raw.Type, Name: raw.Name, Condition: raw.Condition, Value: raw.Value}
	return nil
}
