// Package store is a hierarchical key-value settings store: scalar values
// keyed by string plus named arrays of child nodes. The whole tree round-trips
// through a YAML file. It stands in for a platform settings registry and is
// injected into everything that persists state, so tests can use a bare node.
package store

// Node is one object in the settings tree.
type Node struct {
	values map[string]any
	arrays map[string][]*Node
}

func NewNode() *Node {
	return &Node{
		values: map[string]any{},
		arrays: map[string][]*Node{},
	}
}

// Clear drops all values and arrays.
func (n *Node) Clear() {
	n.values = map[string]any{}
	n.arrays = map[string][]*Node{}
}

func (n *Node) SetString(key, v string) { n.values[key] = v }

func (n *Node) SetFloat(key string, v float64) { n.values[key] = v }

func (n *Node) SetInt(key string, v int) { n.values[key] = v }

// String reads a string value; missing or mistyped keys read as "".
func (n *Node) String(key string) string {
	if s, ok := n.values[key].(string); ok {
		return s
	}
	return ""
}

// Float reads a numeric value; missing or mistyped keys read as 0.
func (n *Node) Float(key string) float64 {
	switch v := n.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Int reads an integer value; missing or mistyped keys read as 0.
func (n *Node) Int(key string) int {
	switch v := n.values[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// CreateArray replaces the named array with length fresh child nodes and
// returns them for writing.
func (n *Node) CreateArray(name string, length int) []*Node {
	arr := make([]*Node, length)
	for i := range arr {
		arr[i] = NewNode()
	}
	n.arrays[name] = arr
	return arr
}

// Array returns the named array for reading; a missing name reads as empty.
func (n *Node) Array(name string) []*Node {
	return n.arrays[name]
}

// AppendArray grows the named array by one node and returns it.
func (n *Node) AppendArray(name string) *Node {
	child := NewNode()
	n.arrays[name] = append(n.arrays[name], child)
	return child
}

func (n *Node) toMap() map[string]any {
	m := make(map[string]any, len(n.values)+len(n.arrays))
	for k, v := range n.values {
		m[k] = v
	}
	for name, arr := range n.arrays {
		out := make([]any, len(arr))
		for i, c := range arr {
			out[i] = c.toMap()
		}
		m[name] = out
	}
	return m
}

func fromMap(m map[string]any) *Node {
	n := NewNode()
	for k, v := range m {
		switch vv := v.(type) {
		case []any:
			arr := make([]*Node, 0, len(vv))
			for _, elem := range vv {
				if em, ok := elem.(map[string]any); ok {
					arr = append(arr, fromMap(em))
				}
			}
			n.arrays[k] = arr
		case map[string]any:
			// Nested maps only appear as array elements in our format; fold
			// a stray one into a single-element array.
			n.arrays[k] = []*Node{fromMap(vv)}
		default:
			n.values[k] = v
		}
	}
	return n
}
