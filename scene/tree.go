package scene

// Walk visits n and all of its descendants depth first. Returning false from
// fn prunes the subtree below the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || fn == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Find returns the first node named name in the subtree rooted at root.
func Find(root Node, name string) Node {
	if root == nil || name == "" {
		return nil
	}
	var found Node
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Name() == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// EnableTree enables root and every descendant, skipping (and not descending
// into) any descendant for which skip returns true. Root itself is always
// enabled so that an owner can show a skipped node explicitly.
func EnableTree(root Node, skip func(Node) bool) {
	if root == nil {
		return
	}
	root.SetEnabled(true)
	for _, c := range root.Children() {
		if skip != nil && skip(c) {
			continue
		}
		EnableTree(c, skip)
	}
}

// DisableTree disables root and every descendant.
func DisableTree(root Node) {
	Walk(root, func(n Node) bool {
		n.SetEnabled(false)
		return true
	})
}

// SetTreeEnabled enables or disables the subtree rooted at root.
func SetTreeEnabled(root Node, enabled bool, skip func(Node) bool) {
	if enabled {
		EnableTree(root, skip)
		return
	}
	DisableTree(root)
}

// Excluded reports whether n carries the no-bulk-enable marker.
func Excluded(n Node) bool {
	return n != nil && n.HasTag(TagNoBulkEnable)
}
