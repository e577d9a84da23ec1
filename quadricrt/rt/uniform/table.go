package uniform

// Table is a Sink that records resolved names and their latest values in first-seen order.
type Table struct {
	names  []string
	values map[string]Value
	writes int
}

func NewTable() *Table {
	return &Table{values: make(map[string]Value)}
}

func (t *Table) SetUniform(name string, v Value) {
	if t.values == nil {
		t.values = make(map[string]Value)
	}
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = v
	t.writes++
}

func (t *Table) Get(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len is the number of distinct names.
func (t *Table) Len() int { return len(t.names) }

// Writes counts SetUniform calls since the last Reset, including overwrites.
func (t *Table) Writes() int { return t.writes }

func (t *Table) Reset() {
	t.names = t.names[:0]
	t.values = make(map[string]Value)
	t.writes = 0
}

// Each visits entries in first-seen order.
func (t *Table) Each(fn func(name string, v Value)) {
	for _, n := range t.names {
		fn(n, t.values[n])
	}
}
