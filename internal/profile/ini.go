package profile

import (
	"bytes"
	"strings"
)

// INI is an ordered INI document as written by the browser's profile
// manager. Comments are not preserved.
type INI struct {
	Sections []*Section
}

// Section is one [Name] block.
type Section struct {
	Name string
	Keys []KeyValue
}

// KeyValue is a single key=value line.
type KeyValue struct {
	Key   string
	Value string
}

// ParseINI reads an INI document. Lines outside any section and lines
// without "=" are ignored.
func ParseINI(data []byte) *INI {
	ini := &INI{}
	var cur *Section
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, ";"), strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			cur = &Section{Name: line[1 : len(line)-1]}
			ini.Sections = append(ini.Sections, cur)
		default:
			k, v, ok := strings.Cut(line, "=")
			if !ok || cur == nil {
				continue
			}
			cur.Set(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	}
	return ini
}

// Section returns the first section with the given name.
func (i *INI) Section(name string) *Section {
	for _, s := range i.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// WithPrefix returns the sections whose names start with prefix, in order.
func (i *INI) WithPrefix(prefix string) []*Section {
	var out []*Section
	for _, s := range i.Sections {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Get returns the value of key.
func (s *Section) Get(key string) (string, bool) {
	for _, kv := range s.Keys {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key in place or appends it.
func (s *Section) Set(key, value string) {
	for i := range s.Keys {
		if s.Keys[i].Key == key {
			s.Keys[i].Value = value
			return
		}
	}
	s.Keys = append(s.Keys, KeyValue{Key: key, Value: value})
}

// Delete removes key from the section.
func (s *Section) Delete(key string) {
	out := s.Keys[:0]
	for _, kv := range s.Keys {
		if kv.Key != key {
			out = append(out, kv)
		}
	}
	s.Keys = out
}

// Marshal renders the document with a blank line after every section.
func (i *INI) Marshal() []byte {
	var buf bytes.Buffer
	for _, s := range i.Sections {
		buf.WriteString("[" + s.Name + "]\n")
		for _, kv := range s.Keys {
			buf.WriteString(kv.Key + "=" + kv.Value + "\n")
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
