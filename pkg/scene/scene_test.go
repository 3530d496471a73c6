package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildReparents(t *testing.T) {
	root := NewNode(MainFile)
	other := NewNode(MainFile)
	child := NewNode(Model)

	root.AddChild(child)
	assert.Same(t, root, child.Parent())
	assert.Len(t, root.Children, 1)

	other.AddChild(child)
	assert.Same(t, other, child.Parent())
	assert.Empty(t, root.Children)
	assert.Same(t, root, root.Root())
	assert.Same(t, other, child.Root())
}

func TestRemoveChild(t *testing.T) {
	root := NewNode(MainFile)
	a := NewNode(Model)
	b := NewNode(Model)
	root.AddChild(a)
	root.AddChild(b)

	root.RemoveChild(a)
	assert.Nil(t, a.Parent())
	require.Len(t, root.Children, 1)
	assert.Same(t, b, root.Children[0])
}

func TestChildrenOfKind(t *testing.T) {
	root := NewNode(MainFile)
	m := NewNode(Model)
	p := NewNode(Particle)
	root.AddChild(m)
	root.AddChild(p)

	models := root.ChildrenOfKind(Model)
	require.Len(t, models, 1)
	assert.Same(t, m, models[0])
	assert.Empty(t, root.ChildrenOfKind(Light))
}

func TestFindByName(t *testing.T) {
	root := NewNode(MainFile)
	m := NewNode(Model)
	m.Name = "MODEL_hull"
	root.AddChild(m)

	assert.Same(t, m, root.FindByName(Model, "hull"))
	assert.Same(t, m, root.FindByName(Model, "MODEL_hull"))
	assert.Nil(t, root.FindByName(Model, "mast"))
	assert.Nil(t, root.FindByName(Particle, "hull"))
}

func TestWalk(t *testing.T) {
	root := NewNode(MainFile)
	m := NewNode(Model)
	root.AddChild(m)
	m.AddChild(NewNode(AnimationsNode))

	var visited []Kind
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Kind)
		return true
	})
	assert.Equal(t, []Kind{MainFile, Model, AnimationsNode}, visited)

	// Returning false prunes the subtree.
	visited = nil
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != Model
	})
	assert.Equal(t, []Kind{MainFile, Model}, visited)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "MODEL_hull", DisplayName("Model", "hull"))
	assert.Equal(t, "hull", DisplayName("", "hull"))
}

func TestStripNamePrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"model prefix", "MODEL_hull", "hull"},
		{"multi-part bare name", "PROP_rock_small", "rock_small"},
		{"no prefix", "hull", "hull"},
		{"lowercase prefix kept", "my_name", "my_name"},
		{"leading underscore kept", "_hidden", "_hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripNamePrefix(tt.in))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SimpleAnnoFeedbackEncoding", SimpleFeedbackRoot.String())
	assert.Equal(t, "Animations", AnimationsNode.String())
	assert.Equal(t, "Model", Model.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
