package atlasbuilder

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Mapping is the name→index lookup for an atlas. Iteration and JSON
// emission preserve insertion order, so two runs over the same inputs
// produce byte-identical files.
type Mapping struct {
	names   []string
	indices map[string]int
}

func NewMapping() *Mapping {
	return &Mapping{indices: make(map[string]int)}
}

// Add assigns the next linear index to name and returns it. Adding a
// name twice returns its existing index.
func (m *Mapping) Add(name string) int {
	if i, ok := m.indices[name]; ok {
		return i
	}
	i := len(m.names)
	m.names = append(m.names, name)
	m.indices[name] = i
	return i
}

// Index returns the linear index of name.
func (m *Mapping) Index(name string) (int, bool) {
	i, ok := m.indices[name]
	return i, ok
}

func (m *Mapping) Len() int { return len(m.names) }

// Names returns the mapped names in index order.
func (m *Mapping) Names() []string { return m.names }

// MarshalJSON emits a JSON object with keys in insertion order, which
// encoding/json's map marshalling would not preserve.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(m.indices[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFile persists the mapping as indented JSON.
func (m *Mapping) WriteFile(path string) error {
	compact, err := m.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "marshal mapping")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return errors.Wrap(err, "indent mapping")
	}
	out.WriteByte('\n')
	return errors.Wrapf(os.WriteFile(path, out.Bytes(), 0o644), "write %s", path)
}
