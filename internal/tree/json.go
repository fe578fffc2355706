package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/firefly-engineering/browser-conf/internal/errors"
)

// FromJSON decodes a JSON document into a Value. Comments and trailing
// commas are accepted. Object key order is preserved.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	v, err := decodeJSONValue(dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.ConfigError("failed to parse JSON", fmt.Errorf("unexpected data after top-level value"))
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, path string) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.ConfigError("failed to parse JSON", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := Mapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, errors.ConfigError("failed to parse JSON", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.ValidationError(path, "object key must be a string")
				}
				if m.Has(key) {
					return nil, errors.ValidationError(JoinKey(path, key), "duplicate key")
				}
				v, err := decodeJSONValue(dec, JoinKey(path, key))
				if err != nil {
					return nil, err
				}
				m.Entries = append(m.Entries, Entry{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, errors.ConfigError("failed to parse JSON", err)
			}
			return m, nil
		case '[':
			seq := Sequence()
			for i := 0; dec.More(); i++ {
				v, err := decodeJSONValue(dec, JoinIndex(path, i))
				if err != nil {
					return nil, err
				}
				seq.Items = append(seq.Items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, errors.ConfigError("failed to parse JSON", err)
			}
			return seq, nil
		}
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, errors.ValidationError(path, "invalid number %s", t.String())
		}
		return Float(f), nil
	}
	return nil, errors.ValidationError(path, "unexpected JSON token %v", tok)
}

// MarshalJSON renders v as compact JSON, keeping mapping order and leaving
// '<', '>' and '&' unescaped.
func MarshalJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler so tree values can be embedded in
// larger documents without losing key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	return MarshalJSON(v)
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return fmt.Errorf("cannot encode non-finite float %v", v.Float)
		}
		buf.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindString:
		writeJSONString(buf, v.Str)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, e.Key)
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.Kind)
	}
	return nil
}

// QuoteJSON returns s as a JSON string literal without HTML escaping.
func QuoteJSON(s string) string {
	var buf bytes.Buffer
	writeJSONString(&buf, s)
	return buf.String()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}
