package display

// UpdateProc draws a layer. It runs on the window's render pass only.
type UpdateProc func(l *Layer, ctx Context)

// Layer is a rectangular region of the window with an optional update proc.
// Layers are created and owned by a Window.
type Layer struct {
	frame    Rect
	update   UpdateProc
	parent   *Layer
	children []*Layer
	window   *Window
}

// Frame returns the layer's frame in its parent's coordinates.
func (l *Layer) Frame() Rect {
	return l.frame
}

// Bounds returns the layer's frame at the local origin.
func (l *Layer) Bounds() Rect {
	return l.frame.Bounds()
}

// Parent returns the layer this one is attached to, or nil.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Children returns a copy of the attached children in draw order.
func (l *Layer) Children() []*Layer {
	out := make([]*Layer, len(l.children))
	copy(out, l.children)
	return out
}

func (l *Layer) detach() {
	if l.parent == nil {
		return
	}
	siblings := l.parent.children
	for i, c := range siblings {
		if c == l {
			l.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	l.parent = nil
}

// absoluteOrigin walks up to the root summing frame origins.
func (l *Layer) absoluteOrigin() Point {
	var p Point
	for cur := l; cur != nil; cur = cur.parent {
		p = p.Add(cur.frame.Origin)
	}
	return p
}
