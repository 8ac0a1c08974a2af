package render

// Tree is an in-memory Host. It backs the terminal preview and tests.
type Tree struct {
	ids    []string
	mounts map[string]*Fragment
}

// Fragment is the node list of one Tree mount point.
type Fragment struct {
	Nodes []Node
}

func (f *Fragment) Clear() { f.Nodes = nil }

func (f *Fragment) Append(nodes ...Node) { f.Nodes = append(f.Nodes, nodes...) }

// NewTree returns a Tree with the given mount points, in order.
func NewTree(ids ...string) *Tree {
	t := &Tree{mounts: make(map[string]*Fragment, len(ids))}
	for _, id := range ids {
		if _, ok := t.mounts[id]; ok {
			continue
		}
		t.ids = append(t.ids, id)
		t.mounts[id] = &Fragment{}
	}
	return t
}

// NewPageTree returns a Tree holding every section container.
func NewPageTree() *Tree {
	return NewTree(ContainerIDs()...)
}

func (t *Tree) Container(id string) (Container, bool) {
	f, ok := t.mounts[id]
	if !ok {
		return nil, false
	}
	return f, true
}

// IDs lists the mount points in creation order.
func (t *Tree) IDs() []string { return t.ids }

// Nodes returns the content of a mount point, nil when it does not exist.
func (t *Tree) Nodes(id string) []Node {
	if f, ok := t.mounts[id]; ok {
		return f.Nodes
	}
	return nil
}
