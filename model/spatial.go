package model

import (
	"sort"

	"go.uber.org/zap"

	"github.com/meshgrid/stepmesh/step"
)

// NodeKind classifies a spatial tree node.
type NodeKind uint8

const (
	NodeProject NodeKind = iota
	NodeSite
	NodeBuilding
	NodeStorey
	NodeSpace
	NodeElement
)

func (k NodeKind) String() string {
	switch k {
	case NodeProject:
		return "project"
	case NodeSite:
		return "site"
	case NodeBuilding:
		return "building"
	case NodeStorey:
		return "storey"
	case NodeSpace:
		return "space"
	case NodeElement:
		return "element"
	}
	return "unknown"
}

// SpatialNode is one node of the site/building/storey/space/element
// containment tree. Built once after parsing, read-only afterwards. Every
// node except the root has exactly one parent.
type SpatialNode struct {
	Children []*SpatialNode
	Type     string
	Kind     NodeKind
	ID       step.EntityID
}

// Walk visits the node and its subtree depth-first, parents before children.
func (n *SpatialNode) Walk(fn func(node *SpatialNode, depth int)) {
	n.walk(fn, 0)
}

func (n *SpatialNode) walk(fn func(*SpatialNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// spatialRel is one aggregation or containment relationship, normalized to
// (parent, ordered children) with the relationship's scan order for the
// file-order tie-break.
type spatialRel struct {
	children []step.EntityID
	parent   step.EntityID
	order    int
}

// BuildSpatial collects every aggregation and containment relationship and
// assembles the containment tree. It must run after scanning completes: STEP
// allows a relation to appear textually before the entities it names. When
// two relationships claim the same child, the first one in file order wins;
// later claims are skipped.
func (m *Model) BuildSpatial() (*SpatialNode, error) {
	var rels []spatialRel

	// IFCRELAGGREGATES: RelatingObject at 4, RelatedObjects at 5.
	for _, id := range m.FindByType("IFCRELAGGREGATES") {
		rel, ok := m.spatialRelAt(id, 4, 5)
		if ok {
			rels = append(rels, rel)
		}
	}
	// IFCRELCONTAINEDINSPATIALSTRUCTURE: RelatedElements at 4,
	// RelatingStructure at 5.
	for _, id := range m.FindByType("IFCRELCONTAINEDINSPATIALSTRUCTURE") {
		rel, ok := m.spatialRelAt(id, 5, 4)
		if ok {
			rels = append(rels, rel)
		}
	}

	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].order < rels[j].order
	})

	parentOf := make(map[step.EntityID]step.EntityID)
	childrenOf := make(map[step.EntityID][]step.EntityID)
	for _, rel := range rels {
		for _, child := range rel.children {
			if prev, claimed := parentOf[child]; claimed {
				if prev != rel.parent {
					Logger().Debug("duplicate spatial parent, keeping first",
						zap.Uint32("child", uint32(child)),
						zap.Uint32("kept", uint32(prev)),
						zap.Uint32("skipped", uint32(rel.parent)))
				}
				continue
			}
			parentOf[child] = rel.parent
			childrenOf[rel.parent] = append(childrenOf[rel.parent], child)
		}
	}

	root := &SpatialNode{Kind: NodeProject, Type: "IFCPROJECT"}
	if projects := m.FindByType("IFCPROJECT"); len(projects) > 0 {
		root.ID = projects[0]
	}

	visited := map[step.EntityID]bool{root.ID: true}
	var attach func(node *SpatialNode)
	attach = func(node *SpatialNode) {
		for _, childID := range childrenOf[node.ID] {
			if visited[childID] {
				continue // containment loop in the input
			}
			visited[childID] = true
			child := &SpatialNode{ID: childID}
			child.Type, _ = m.TypeOf(childID)
			child.Kind = nodeKind(child.Type)
			node.Children = append(node.Children, child)
			attach(child)
		}
	}
	attach(root)

	// Orphan subtrees: relation parents nobody claims. Attach them under the
	// root so a file without an IFCPROJECT still yields a complete tree.
	if root.ID == 0 {
		var tops []step.EntityID
		for parent := range childrenOf {
			if _, hasParent := parentOf[parent]; !hasParent && !visited[parent] {
				tops = append(tops, parent)
			}
		}
		sort.Slice(tops, func(i, j int) bool { return m.order(tops[i]) < m.order(tops[j]) })
		for _, top := range tops {
			if visited[top] {
				continue
			}
			visited[top] = true
			node := &SpatialNode{ID: top}
			node.Type, _ = m.TypeOf(top)
			node.Kind = nodeKind(node.Type)
			root.Children = append(root.Children, node)
			attach(node)
		}
	}

	m.mu.Lock()
	m.spatial = root
	m.mu.Unlock()
	return root, nil
}

// spatialRelAt decodes one relationship entity, reading the parent reference
// and the child list from the given attribute indices. Malformed relations
// are skipped with a debug log so one bad record cannot take down the tree.
func (m *Model) spatialRelAt(id step.EntityID, parentIdx, childrenIdx int) (spatialRel, bool) {
	ent, err := m.Get(id)
	if err != nil {
		Logger().Debug("skipping undecodable relationship",
			zap.Uint32("entity", uint32(id)), zap.Error(err))
		return spatialRel{}, false
	}
	max := parentIdx
	if childrenIdx > max {
		max = childrenIdx
	}
	if len(ent.Attrs) <= max {
		Logger().Debug("skipping short relationship",
			zap.Uint32("entity", uint32(id)), zap.Int("attrs", len(ent.Attrs)))
		return spatialRel{}, false
	}
	parent, ok := ent.Attrs[parentIdx].AsRef()
	if !ok {
		return spatialRel{}, false
	}
	list, ok := ent.Attrs[childrenIdx].AsList()
	if !ok {
		return spatialRel{}, false
	}
	rel := spatialRel{parent: parent, order: m.order(id)}
	for _, v := range list {
		if child, ok := v.AsRef(); ok {
			rel.children = append(rel.children, child)
		}
	}
	return rel, len(rel.children) > 0
}

// TypeOf returns the scanned type name for an id without decoding.
func (m *Model) TypeOf(id step.EntityID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	re, ok := m.raw[id]
	return re.Type, ok
}

func nodeKind(typeName string) NodeKind {
	switch typeName {
	case "IFCPROJECT":
		return NodeProject
	case "IFCSITE":
		return NodeSite
	case "IFCBUILDING":
		return NodeBuilding
	case "IFCBUILDINGSTOREY":
		return NodeStorey
	case "IFCSPACE":
		return NodeSpace
	}
	return NodeElement
}
