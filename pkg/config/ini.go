package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// ReaderOption configures the INI reader.
type ReaderOption func(*reader)

type reader struct {
	base string
}

// WithBaseSection makes the named section mandatory and overlays the
// environment section on top of it.
func WithBaseSection(name string) ReaderOption {
	return func(r *reader) {
		r.base = name
	}
}

// LoadINI reads the INI file at path and returns the tree for the env section.
func LoadINI(path, env string, opts ...ReaderOption) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return ParseINI(data, env, opts...)
}

// ParseINI parses INI data and returns the tree for the env section.
//
// Sections may extend another section with "[child : parent]". Keys from
// the unnamed default section apply to every environment. Dotted keys expand
// into nested nodes and "key[]" lines build a list.
func ParseINI(data []byte, env string, opts ...ReaderOption) (*Node, error) {
	r := &reader{}
	for _, opt := range opts {
		opt(r)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:             true,
		UnescapeValueDoubleQuotes: true,
	}, data)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	sections := make(map[string]*section)
	var defaults *Node
	for _, s := range f.Sections() {
		node := sectionNode(s)
		if s.Name() == ini.DefaultSection {
			defaults = node
			continue
		}
		name, parent, _ := strings.Cut(s.Name(), ":")
		name = strings.TrimSpace(name)
		sections[name] = &section{node: node, parent: strings.TrimSpace(parent)}
	}

	res := &resolver{sections: sections, visiting: make(map[string]bool)}

	tree, err := res.resolve(env)
	if err != nil {
		return nil, err
	}

	if r.base != "" && r.base != env {
		base, err := res.resolve(r.base)
		if err != nil {
			return nil, err
		}
		tree = Merge(base, tree)
	}

	return Merge(defaults, tree), nil
}

type section struct {
	node   *Node
	parent string
}

type resolver struct {
	sections map[string]*section
	visiting map[string]bool
}

func (r *resolver) resolve(name string) (*Node, error) {
	s, ok := r.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
	}
	if r.visiting[name] {
		return nil, fmt.Errorf("%w: %q", ErrInheritanceCycle, name)
	}
	if s.parent == "" {
		return s.node, nil
	}

	r.visiting[name] = true
	defer delete(r.visiting, name)

	parent, err := r.resolve(s.parent)
	if err != nil {
		return nil, err
	}
	return Merge(parent, s.node), nil
}

func sectionNode(s *ini.Section) *Node {
	root := newNode()
	for _, k := range s.Keys() {
		name := k.Name()
		values := k.ValueWithShadows()

		var value any
		if list, ok := strings.CutSuffix(name, "[]"); ok {
			name = list
			value = append([]string(nil), values...)
		} else if len(values) > 0 {
			value = values[len(values)-1]
		} else {
			value = k.Value()
		}

		setPath(root, strings.Split(name, "."), value)
	}
	return root
}

func setPath(n *Node, parts []string, value any) {
	for _, p := range parts[:len(parts)-1] {
		child := n.Child(p)
		if child == nil {
			child = newNode()
			n.Set(p, child)
		}
		n = child
	}

	last := parts[len(parts)-1]
	if list, ok := value.([]string); ok {
		if existing, isList := n.Get(last, nil).([]string); isList {
			value = append(existing, list...)
		}
	}
	n.Set(last, value)
}
