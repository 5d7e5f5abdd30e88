package orrery

// NodeIterator is anything that can walk a selection of Nodes; NodeFilter implements it.
type NodeIterator interface {
	// ForEach calls the callback for each Node; returning false stops the iteration.
	ForEach(callback func(node INode) bool)
}

// NodeFilter represents a filterable selection of INodes. For example, `filter := scene.Root.ChildrenRecursive()` returns a NodeFilter
// composed of all nodes underneath the root (excluding the root itself). From there, you can use additional functions on the NodeFilter
// to filter it down further (i.e. `filter = filter.ByType(orrery.NodeTypeBoundingSphere)`).
type NodeFilter []INode

// First returns the first Node in the NodeFilter; if the NodeFilter is empty, this function returns nil.
func (nf NodeFilter) First() INode {
	if len(nf) == 0 {
		return nil
	}
	return nf[0]
}

// Get returns the Node at the given index in the NodeFilter; if index is invalid (<0 or >= len(nodes)), this function returns nil.
func (nf NodeFilter) Get(index int) INode {
	if index < 0 || index >= len(nf) {
		return nil
	}
	return nf[index]
}

// ByFunc allows you to filter a given selection of nodes by the provided filter function (which takes a Node
// and returns a boolean, indicating whether or not to add that Node to the resulting NodeFilter).
// If no matching Nodes are found, an empty NodeFilter is returned.
func (nf NodeFilter) ByFunc(filterFunc func(node INode) bool) NodeFilter {
	out := make(NodeFilter, 0, len(nf))
	for _, node := range nf {
		if filterFunc(node) {
			out = append(out, node)
		}
	}
	return out
}

// ByName allows you to filter a given selection of nodes if their names are wholly equal
// to the provided name string.
func (nf NodeFilter) ByName(name string) NodeFilter {
	return nf.ByFunc(func(node INode) bool { return node.Name() == name })
}

// ByType allows you to filter a given selection of nodes by the provided NodeType.
// If no matching Nodes are found, an empty NodeFilter is returned.
func (nf NodeFilter) ByType(nodeType NodeType) NodeFilter {
	return nf.ByFunc(func(node INode) bool { return node.Type().Is(nodeType) })
}

// ForEach calls the callback for each Node in the filter. Returning false from the callback stops the iteration.
func (nf NodeFilter) ForEach(callback func(node INode) bool) {
	for _, node := range nf {
		if !callback(node) {
			break
		}
	}
}

// Contains returns true if the provided Node is contained in the NodeFilter.
func (nf NodeFilter) Contains(node INode) bool {
	return nf.Index(node) >= 0
}

// Index returns the index of the given INode in the NodeFilter; if it doesn't exist in the filter,
// then this function returns -1.
func (nf NodeFilter) Index(node INode) int {
	for i, child := range nf {
		if child == node {
			return i
		}
	}
	return -1
}

// Models returns a slice of the Models contained within the NodeFilter.
func (nf NodeFilter) Models() []*Model {
	models := make([]*Model, 0, len(nf))
	for _, n := range nf {
		if model, ok := n.(*Model); ok {
			models = append(models, model)
		}
	}
	return models
}
