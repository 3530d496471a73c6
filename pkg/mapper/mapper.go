// Package mapper converts between raw configuration XML and the typed
// scene graph. Each node kind carries a static rule describing its name,
// transform, material and child-container schema; parsing strips the
// typed parts out of the element and captures the rest losslessly in the
// node's property tree, serializing runs the exact inverse.
package mapper

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/coerce"
	"github.com/anno-mods/annocfg/pkg/material"
	"github.com/anno-mods/annocfg/pkg/scene"
	"github.com/anno-mods/annocfg/pkg/transform"
)

// ParseDocument converts a parsed .cfg document into a scene graph rooted
// at a main-file node. The element tree is consumed in the process; clone
// it first if the caller still needs it.
func (s *Session) ParseDocument(doc *cfgxml.Element) (*scene.Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("mapper: document has no root element")
	}
	root := s.parse(doc, scene.MainFile, nil)
	if root.Name == "" {
		root.Name = "MAIN_FILE"
	}
	return root, nil
}

// ParseIfoDocument converts a parsed .ifo document into a scene graph
// rooted at an ifo-file node.
func (s *Session) ParseIfoDocument(doc *cfgxml.Element) (*scene.Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("mapper: document has no root element")
	}
	root := s.parse(doc, scene.IfoFile, nil)
	if root.Name == "" {
		root.Name = "IFOFILE"
	}
	return root, nil
}

// ParseCf7Document converts a parsed .cf7 feedback definition into a scene
// graph rooted at a cf7-file node. Spline data stays in the property tree
// untouched.
func (s *Session) ParseCf7Document(doc *cfgxml.Element) (*scene.Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("mapper: document has no root element")
	}
	root := s.parse(doc, scene.Cf7File, nil)
	if root.Name == "" {
		root.Name = "CF7FILE"
	}
	return root, nil
}

// SerializeDocument regenerates the XML document for a scene graph rooted
// at a main-file, ifo-file or cf7-file node.
func (s *Session) SerializeDocument(root *scene.Node) (*cfgxml.Element, error) {
	if root == nil {
		return nil, fmt.Errorf("mapper: nil scene root")
	}
	return s.serialize(root, nil), nil
}

func (s *Session) parse(el *cfgxml.Element, kind scene.Kind, parent *scene.Node) *scene.Node {
	r := ruleFor(kind)
	node := scene.NewNode(kind)
	if parent != nil {
		parent.AddChild(node)
	}
	node.Name = s.displayName(kind, el)
	if r.hasName {
		el.TakeText("Name", "")
	}

	if r.hasTransform {
		transformEl := el
		if bp, ok := r.transformPaths["base_path"]; ok {
			if base := el.Find(bp); base != nil {
				transformEl = base
			}
		}
		t := transform.FromElement(transformEl, r.transformPaths, r.enforceEqualScale, r.eulerRotation)
		t.Mirror = s.opts.MirrorModels
		t.ToHostCoords()
		node.Transform = t
	}

	if r.hasMaterials {
		if mats := el.Find("Materials"); mats != nil {
			for _, matEl := range mats.Children {
				m := material.FromElement(matEl, r.clothMaterials, s.logger)
				node.Materials = append(node.Materials, s.materials.Intern(m))
			}
			el.Remove(mats)
		}
	}

	s.parseChildren(el, r, node)
	s.parseHook(el, node)

	node.Props.FromElement(el)
	return node
}

// parseChildren moves declared child containers out of el into child
// nodes, tagging each with its position among its original siblings.
func (s *Session) parseChildren(el *cfgxml.Element, r rule, node *scene.Node) {
	for _, cr := range r.containers {
		sub := el.Find(cr.tag)
		if sub == nil {
			continue
		}
		for i, childEl := range append([]*cfgxml.Element(nil), sub.Children...) {
			child := s.parse(childEl, cr.kind, node)
			child.ImportIndex = i
		}
		// A container addressed through a path (e.g. "DummyRoot/Groups")
		// is not a direct child; its emptied shell stays in the tree and
		// is refilled on serialization.
		sub.Children = nil
		el.Remove(sub)
	}
	for _, cr := range r.inline {
		for i, childEl := range el.FindAll(cr.tag) {
			child := s.parse(childEl, cr.kind, node)
			child.ImportIndex = i
			el.Remove(childEl)
		}
	}
}

func (s *Session) serialize(node *scene.Node, parentContainer *cfgxml.Element) *cfgxml.Element {
	r := ruleFor(node.Kind)
	el := node.Props.ToElement(s.elementTag(node))
	if parentContainer != nil {
		parentContainer.Append(el)
	}

	s.serializeHook(el, node)

	if r.hasName {
		el.FindOrCreate("Name").Text = bareName(node.Name)
	}

	if r.hasTransform && node.Transform != nil {
		t := *node.Transform
		t.ToEngineCoords()
		if r.enforceEqualScale && t.EnforceEqualScale() {
			s.logger.Warn("non-uniform scale on uniform-scale node, using x axis",
				"node", node.Name, "kind", node.Kind.String())
		}
		transformEl := el
		if bp, ok := r.transformPaths["base_path"]; ok {
			transformEl = el.FindOrCreate(bp)
		}
		if err := t.ApplyToElement(transformEl, r.transformPaths); err != nil {
			s.logger.Warn("transform serialization failed", "node", node.Name, "error", err)
		}
	}

	if r.hasMaterials {
		matsEl := el.FindOrCreate("Materials")
		for _, m := range node.Materials {
			m.ToElement(matsEl)
		}
	}

	s.serializeChildren(el, r, node)
	s.finishHook(el, node)
	return el
}

func (s *Session) serializeChildren(el *cfgxml.Element, r rule, node *scene.Node) {
	containerByKind := make(map[scene.Kind]string, len(r.containers))
	for _, cr := range r.containers {
		containerByKind[cr.kind] = cr.tag
	}
	inlineKinds := make(map[scene.Kind]bool, len(r.inline))
	for _, cr := range r.inline {
		inlineKinds[cr.kind] = true
	}
	for _, child := range node.Children {
		if inlineKinds[child.Kind] {
			s.serialize(child, el)
			continue
		}
		container, ok := containerByKind[child.Kind]
		if !ok {
			continue
		}
		s.serialize(child, el.FindOrCreate(container))
	}
}

// displayName derives the conventional node name from the element before
// anything is stripped: the config type (element tag as fallback), an
// underscore, and the Name leaf or the file stem.
func (s *Session) displayName(kind scene.Kind, el *cfgxml.Element) string {
	switch kind {
	case scene.MainFile:
		return "MAIN_FILE"
	case scene.IfoFile:
		return "IFOFILE"
	case scene.Cf7File:
		return "CF7FILE"
	case scene.AnimationSequences:
		return "ANIMATION_SEQUENCES"
	case scene.AnimationSequence:
		id, err := strconv.Atoi(el.GetText("SequenceID", "-1"))
		if err != nil {
			id = -1
		}
		return "SEQUENCE_" + sequenceLabel(id)
	case scene.Animation:
		stem := fileStem(el.GetText("FileName", ""))
		return "ANIMATION_" + el.GetText("AnimationIndex", "") + "_" + stem
	case scene.Track:
		return "TRACK_" + el.GetText("TrackID", "")
	}
	configType := el.GetText("ConfigType", el.Tag)
	if configType == "i" {
		configType = kind.String()
	}
	name := el.GetText("Name", fileStem(el.GetText("FileName", "")))
	if !strings.HasPrefix(name, configType+"_") {
		name = configType + "_" + name
	}
	return name
}

// elementTag picks the XML tag a node serializes under: the tag the node
// was parsed from when known, otherwise the kind's conventional tag.
func (s *Session) elementTag(node *scene.Node) string {
	if node.Props.Tag != "" {
		return node.Props.Tag
	}
	switch node.Kind {
	case scene.Dummy:
		return "Dummy"
	case scene.DummyGroup:
		return "DummyGroup"
	case scene.FeedbackConfig:
		return "FeedbackConfig"
	case scene.SimpleFeedbackRoot:
		return "SimpleAnnoFeedbackEncoding"
	case scene.AnimationSequences:
		return "Sequences"
	case scene.Track:
		return "Track"
	case scene.TrackElement:
		return "TrackElement"
	case scene.AnimationsNode:
		return "Animations"
	case scene.Sequence:
		return "Sequence"
	case scene.Cf7DummyGroup, scene.Cf7Dummy:
		return "i"
	}
	return "Config"
}

// sequenceLabel names a sequence ID for display, falling back to the
// numeric ID when the fixed table has no entry.
func sequenceLabel(id int) string {
	if name := coerce.SequenceNameByID(int64(id)); name != "none" {
		return name
	}
	return strconv.Itoa(id)
}

// bareName strips the conventional "KIND_" marker off a display name.
func bareName(name string) string {
	if _, rest, found := strings.Cut(name, "_"); found {
		return rest
	}
	return name
}

func fileStem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
