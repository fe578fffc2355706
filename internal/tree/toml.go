package tree

import (
	"math"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/browser-conf/internal/errors"
)

// FromTOML decodes a TOML document into a Value. Mapping entries follow
// the order in which their keys first appear in the document.
func FromTOML(data []byte) (*Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.ConfigError("failed to parse TOML", err)
	}

	order := make(map[string]int)
	for i, key := range md.Keys() {
		// Implicit parent tables ([a.b] without [a]) take the position of
		// their first child.
		for n := 1; n <= len(key); n++ {
			s := key[:n].String()
			if _, seen := order[s]; !seen {
				order[s] = i
			}
		}
	}

	return fromTOMLValue(raw, nil, order)
}

func fromTOMLValue(raw any, key toml.Key, order map[string]int) (*Value, error) {
	path := key.String()

	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case int64:
		return Int(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.ValidationError(path, "non-finite float is not supported")
		}
		return Float(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return String(x.Format(time.RFC3339Nano)), nil

	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			oi, iok := order[childKey(key, keys[i]).String()]
			oj, jok := order[childKey(key, keys[j]).String()]
			switch {
			case iok && jok:
				return oi < oj
			case iok != jok:
				return iok
			default:
				return keys[i] < keys[j]
			}
		})
		m := Mapping()
		for _, k := range keys {
			v, err := fromTOMLValue(x[k], childKey(key, k), order)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, Entry{Key: k, Value: v})
		}
		return m, nil

	case []map[string]any:
		seq := Sequence()
		for _, item := range x {
			v, err := fromTOMLValue(item, key, order)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil

	case []any:
		seq := Sequence()
		for _, item := range x {
			v, err := fromTOMLValue(item, key, order)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil
	}

	return nil, errors.ValidationError(path, "unsupported TOML value of type %T", raw)
}

func childKey(parent toml.Key, piece string) toml.Key {
	k := make(toml.Key, 0, len(parent)+1)
	k = append(k, parent...)
	return append(k, piece)
}
