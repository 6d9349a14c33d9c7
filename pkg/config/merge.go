package config

// Merge returns a new node combining first and second.
//
// Keys present in both are merged recursively when both values are nodes;
// otherwise the value from second wins and keeps the position it had in
// first. Keys only present in second are appended in second's order.
// Neither input is modified.
func Merge(first, second *Node) *Node {
	out := newNode()
	if first != nil {
		for _, k := range first.keys {
			out.Set(k, cloneValue(first.values[k]))
		}
	}
	if second == nil {
		return out
	}

	for _, k := range second.keys {
		sv := second.values[k]
		if fn, ok := out.values[k].(*Node); ok {
			if sn, ok := sv.(*Node); ok {
				out.values[k] = Merge(fn, sn)
				continue
			}
		}
		out.Set(k, cloneValue(sv))
	}

	return out
}
