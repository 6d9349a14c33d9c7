package config

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Entry is a single key/value pair used to build an ordered Node.
type Entry struct {
	Value any
	Key   string
}

// Node is an ordered configuration tree.
// Each child is either a scalar value or a nested *Node.
type Node struct {
	values map[string]any
	keys   []string
}

// New builds a node from nested associative data.
// Go maps carry no order, so keys are sorted; use NewOrdered to keep a
// specific order.
func New(data map[string]any) *Node {
	n := newNode()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		n.Set(k, data[k])
	}
	return n
}

// NewOrdered builds a node keeping the order of entries.
// Nested map[string]any, []Entry and *Node values become child nodes.
func NewOrdered(entries ...Entry) *Node {
	n := newNode()
	for _, e := range entries {
		n.Set(e.Key, e.Value)
	}
	return n
}

func newNode() *Node {
	return &Node{values: make(map[string]any)}
}

// Set stores value under name. An existing key keeps its position;
// a new key is appended.
func (n *Node) Set(name string, value any) {
	if _, exists := n.values[name]; !exists {
		n.keys = append(n.keys, name)
	}
	n.values[name] = normalize(value)
}

// Get returns the value stored under name, or def when the key is absent.
func (n *Node) Get(name string, def any) any {
	if n == nil {
		return def
	}
	if v, ok := n.values[name]; ok {
		return v
	}
	return def
}

// Has reports whether name is present.
func (n *Node) Has(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.values[name]
	return ok
}

// Remove deletes name from the node. Iterators created earlier skip it.
func (n *Node) Remove(name string) {
	if _, ok := n.values[name]; !ok {
		return
	}
	delete(n.values, name)
	if i := slices.Index(n.keys, name); i >= 0 {
		n.keys = slices.Delete(n.keys, i, i+1)
	}
}

// Count returns the number of live children.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	return len(n.values)
}

// Keys returns the live keys in order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.keys)
}

// Child returns the nested node stored under name, or nil when the key is
// absent or holds a scalar.
func (n *Node) Child(name string) *Node {
	c, _ := n.Get(name, nil).(*Node)
	return c
}

// Lookup walks a dotted path such as "resources.modules" and returns the
// value found there, or def.
func (n *Node) Lookup(path string, def any) any {
	parts := strings.Split(path, ".")
	cur := n
	for _, p := range parts[:len(parts)-1] {
		cur = cur.Child(p)
		if cur == nil {
			return def
		}
	}
	return cur.Get(parts[len(parts)-1], def)
}

// String returns the value under name as a string, or def.
func (n *Node) String(name, def string) string {
	v, ok := n.scalar(name)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Int returns the value under name as an int, or def.
func (n *Node) Int(name string, def int) int {
	v, ok := n.scalar(name)
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// Float returns the value under name as a float64, or def.
func (n *Node) Float(name string, def float64) float64 {
	v, ok := n.scalar(name)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

// Bool returns the value under name as a bool, or def.
// In addition to the usual forms, "on"/"yes" and "off"/"no" are accepted.
func (n *Node) Bool(name string, def bool) bool {
	v, ok := n.scalar(name)
	if !ok {
		return def
	}
	if s, isString := v.(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes":
			return true
		case "off", "no", "none", "":
			return false
		}
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Duration returns the value under name as a time.Duration, or def.
func (n *Node) Duration(name string, def time.Duration) time.Duration {
	v, ok := n.scalar(name)
	if !ok {
		return def
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return def
	}
	return d
}

// Strings returns the value under name as a string slice.
// A scalar becomes a one-element slice; a child node yields its values in order.
func (n *Node) Strings(name string) []string {
	v := n.Get(name, nil)
	switch t := v.(type) {
	case nil:
		return nil
	case *Node:
		out := make([]string, 0, t.Count())
		for _, val := range t.All() {
			out = append(out, cast.ToString(val))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		s, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil
		}
		return s
	}
}

// ToMap converts the tree back to nested maps.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}
	out := make(map[string]any, len(n.values))
	for k, v := range n.values {
		if c, ok := v.(*Node); ok {
			out[k] = c.ToMap()
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the node. Cloning a nil node yields nil.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := newNode()
	for _, k := range n.keys {
		c.Set(k, cloneValue(n.values[k]))
	}
	return c
}

// All iterates the live children in order.
func (n *Node) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		it := n.Iterator()
		for ; it.Valid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Iterator returns a cursor positioned at the first child.
func (n *Node) Iterator() *Iterator {
	it := &Iterator{node: n}
	it.Rewind()
	return it
}

func (n *Node) scalar(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	v, ok := n.values[name]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNode := v.(*Node); isNode {
		return nil, false
	}
	return v, true
}

// Iterator walks a snapshot of a node's key order.
// Keys removed from the node after the snapshot are skipped by Valid,
// so removing the current key does not make Next skip its successor.
type Iterator struct {
	node *Node
	keys []string
	pos  int
}

// Rewind takes a fresh snapshot and moves to the first key.
func (it *Iterator) Rewind() {
	it.keys = it.node.Keys()
	it.pos = 0
}

// Valid reports whether the cursor points at a live key.
func (it *Iterator) Valid() bool {
	for it.pos < len(it.keys) && !it.node.Has(it.keys[it.pos]) {
		it.pos++
	}
	return it.pos < len(it.keys)
}

// Key returns the current key.
func (it *Iterator) Key() string {
	if it.pos >= len(it.keys) {
		return ""
	}
	return it.keys[it.pos]
}

// Value returns the current value, or nil if it was removed.
func (it *Iterator) Value() any {
	return it.node.Get(it.Key(), nil)
}

// Next advances the cursor by one key.
func (it *Iterator) Next() {
	it.pos++
}

func normalize(v any) any {
	switch t := v.(type) {
	case *Node:
		return t
	case map[string]any:
		return New(t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return New(m)
	case []Entry:
		return NewOrdered(t...)
	default:
		return v
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Node:
		return t.Clone()
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
