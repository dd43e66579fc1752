package sppf

import "fmt"

// CheckInvariants walks the whole arena and verifies the testable SPPF
// properties. SPPF uniqueness and packed uniqueness are already
// guaranteed by construction (the dedup maps make a duplicate key
// impossible to insert), so this additionally re-derives extent
// coherence for every packed node, which construction enforces locally in
// GetNodeP but is worth re-checking globally as a test oracle:
//
//	p.pivot = p.child_z.left, child_z.right = container.right
//	if p has child_w: child_w.right = p.pivot, child_w.left = container.left
//
// It returns the first violation found, or nil.
func (s *Store) CheckInvariants() error {
	for idx, n := range s.nodes {
		if n.Kind != SymbolKind && n.Kind != IntermediateKind {
			continue
		}
		for _, pc := range n.Children {
			p := s.nodes[pc]
			if p.Kind != PackedKind {
				return fmt.Errorf("sppf: child %d of container %d is not a packed node", pc, idx)
			}
			if len(p.Children) == 0 || len(p.Children) > 2 {
				return fmt.Errorf("sppf: packed node %d has %d children, want 1 or 2", pc, len(p.Children))
			}
			z := s.nodes[p.Children[len(p.Children)-1]]
			if int(z.Extent.From()) != p.Pivot {
				return fmt.Errorf("sppf: packed node %d: pivot %d != child_z.left %d", pc, p.Pivot, z.Extent.From())
			}
			if int(z.Extent.To()) != int(n.Extent.To()) {
				return fmt.Errorf("sppf: packed node %d: child_z.right %d != container.right %d", pc, z.Extent.To(), n.Extent.To())
			}
			if len(p.Children) == 2 {
				w := s.nodes[p.Children[0]]
				if int(w.Extent.To()) != p.Pivot {
					return fmt.Errorf("sppf: packed node %d: child_w.right %d != pivot %d", pc, w.Extent.To(), p.Pivot)
				}
				if int(w.Extent.From()) != int(n.Extent.From()) {
					return fmt.Errorf("sppf: packed node %d: child_w.left %d != container.left %d", pc, w.Extent.From(), n.Extent.From())
				}
			}
		}
	}
	return nil
}

// PackedChildren returns the packed-child node indices of the container at
// idx, in the order they were added.
func (s *Store) PackedChildren(idx int) []int {
	return append([]int(nil), s.nodes[idx].Children...)
}
