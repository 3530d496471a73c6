// Package scene defines the host-side scene graph: typed nodes owning a
// dynamic property tree plus optional transform, material and mesh
// attachments. The mapper in pkg/mapper converts between this graph and
// the XML documents it was loaded from.
package scene

import (
	"fmt"
	"strings"

	"github.com/anno-mods/annocfg/pkg/material"
	"github.com/anno-mods/annocfg/pkg/property"
	"github.com/anno-mods/annocfg/pkg/transform"
)

// Kind classifies a scene node. The set is closed; every kind maps to a
// fixed rule set in pkg/mapper describing how it serializes.
type Kind int

const (
	NoObject Kind = iota
	MainFile
	Model
	Cloth
	SubFile
	Decal
	Propcontainer
	Prop
	Particle
	Light
	Dummy
	DummyGroup
	FeedbackConfig
	SimpleFeedbackRoot
	AnimationsNode
	Animation
	AnimationSequences
	AnimationSequence
	Track
	TrackElement
	Sequence
	IfoFile
	IfoCube
	IfoPlane
	IfoMeshHeightmap
	Cf7File
	Cf7DummyGroup
	Cf7Dummy
)

var kindNames = map[Kind]string{
	NoObject:           "NoObject",
	MainFile:           "MainFile",
	Model:              "Model",
	Cloth:              "Cloth",
	SubFile:            "SubFile",
	Decal:              "Decal",
	Propcontainer:      "Propcontainer",
	Prop:               "Prop",
	Particle:           "Particle",
	Light:              "Light",
	Dummy:              "Dummy",
	DummyGroup:         "DummyGroup",
	FeedbackConfig:     "FeedbackConfig",
	SimpleFeedbackRoot: "SimpleAnnoFeedbackEncoding",
	AnimationsNode:     "Animations",
	Animation:          "Animation",
	AnimationSequences: "AnimationSequences",
	AnimationSequence:  "AnimationSequence",
	Track:              "Track",
	TrackElement:       "TrackElement",
	Sequence:           "Sequence",
	IfoFile:            "IfoFile",
	IfoCube:            "IfoCube",
	IfoPlane:           "IfoPlane",
	IfoMeshHeightmap:   "IfoMeshHeightmap",
	Cf7File:            "Cf7File",
	Cf7DummyGroup:      "Cf7DummyGroup",
	Cf7Dummy:           "Cf7Dummy",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one scene-graph node. Props carries every XML field that no
// typed attachment claimed, so unknown data survives a round trip.
type Node struct {
	Kind       Kind
	Name       string
	Props      *property.Tree
	Transform  *transform.Transform
	Materials  []*material.Material
	Mesh       *transform.Mesh
	LightColor [3]float64

	// ImportIndex records the node's position among its original XML
	// siblings so ordinal references can be re-resolved later.
	ImportIndex int

	Children []*Node
	parent   *Node
}

// NewNode returns a node of the given kind with an empty property tree.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind, Props: property.NewTree(nil)}
}

// Parent returns the node's parent, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddChild appends child and reparents it.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child, preserving sibling order.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// ChildrenOfKind returns the direct children with the given kind, in
// sibling order.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FindByName searches the subtree rooted at n depth-first for a node of
// the given kind whose display name matches. Names compare after
// stripping the kind prefix, so "MODEL_hull" finds a Model named "hull".
func (n *Node) FindByName(kind Kind, name string) *Node {
	if n.Kind == kind && StripNamePrefix(n.Name) == StripNamePrefix(name) {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByName(kind, name); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and every descendant depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// DisplayName builds the conventional node name: the uppercased config
// type, an underscore, then the bare name. Nodes without a config type
// use the bare name.
func DisplayName(configType, name string) string {
	if configType == "" {
		return name
	}
	return strings.ToUpper(configType) + "_" + name
}

// StripNamePrefix removes a leading "CONFIGTYPE_" marker from a display
// name, returning the bare name.
func StripNamePrefix(name string) string {
	i := strings.Index(name, "_")
	if i <= 0 {
		return name
	}
	prefix := name[:i]
	if prefix != strings.ToUpper(prefix) || strings.ToLower(prefix) == prefix {
		return name
	}
	return name[i+1:]
}
