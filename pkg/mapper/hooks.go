package mapper

import (
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/scene"
	"github.com/anno-mods/annocfg/pkg/transform"
)

// parseHook applies the kind-specific element rewrite between child
// extraction and generic property capture.
func (s *Session) parseHook(el *cfgxml.Element, node *scene.Node) {
	switch node.Kind {
	case scene.Light:
		node.LightColor = [3]float64{
			el.TakeFloat("Diffuse.r", 1),
			el.TakeFloat("Diffuse.g", 1),
			el.TakeFloat("Diffuse.b", 1),
		}
	case scene.Sequence:
		id := el.TakeText("Id", "")
		el.SubElement("SequenceID").Text = id
	case scene.Track:
		for _, te := range el.FindAll("TrackElement") {
			s.durableTrackRefs(te, node)
		}
	case scene.TrackElement:
		s.durableTrackRefs(el, node)
	case scene.Model:
		s.expandAnimations(el, node)
	case scene.SubFile:
		s.loadSubFile(el, node)
	case scene.Prop:
		s.attachPropData(el, node)
	case scene.IfoFile:
		for i, childEl := range append([]*cfgxml.Element(nil), el.Children...) {
			kind, ok := ifoKindByTag[childEl.Tag]
			if !ok {
				continue
			}
			child := s.parse(childEl, kind, node)
			child.ImportIndex = i
			el.Remove(childEl)
		}
	case scene.DummyGroup:
		for _, childEl := range append([]*cfgxml.Element(nil), el.Children...) {
			if childEl.IsLeaf() {
				continue
			}
			s.parse(childEl, scene.Dummy, node)
			el.Remove(childEl)
		}
	case scene.IfoPlane:
		s.parseIfoPlane(el, node)
	case scene.IfoMeshHeightmap:
		s.parseHeightmap(el, node)
	}
}

// serializeHook is the inverse rewrite, applied to the freshly regenerated
// element before name, transform and materials are re-attached.
func (s *Session) serializeHook(el *cfgxml.Element, node *scene.Node) {
	switch node.Kind {
	case scene.Light:
		el.SubElement("Diffuse.r").Text = cfgxml.FormatFloat(node.LightColor[0])
		el.SubElement("Diffuse.g").Text = cfgxml.FormatFloat(node.LightColor[1])
		el.SubElement("Diffuse.b").Text = cfgxml.FormatFloat(node.LightColor[2])
	case scene.Sequence:
		id := el.TakeText("SequenceID", "")
		el.SubElement("Id").Text = id
	case scene.Dummy:
		el.TakeText("Id", "")
		el.TakeText("has_value", "")
	case scene.DummyGroup:
		el.TakeText("Id", "")
		el.TakeText("has_value", "")
		el.TakeText("Groups", "")
	case scene.SimpleFeedbackRoot:
		el.Tag = "SimpleAnnoFeedbackEncoding"
		el.Children = nil
	}
}

// finishHook runs after children are serialized: container-less child
// emission, animation re-collection and the main-file reference pass.
func (s *Session) finishHook(el *cfgxml.Element, node *scene.Node) {
	switch node.Kind {
	case scene.IfoFile:
		for _, child := range node.Children {
			s.serialize(child, el)
		}
	case scene.DummyGroup:
		for _, child := range node.ChildrenOfKind(scene.Dummy) {
			s.serialize(child, el)
		}
	case scene.Model:
		s.collectAnimations(el, node)
	case scene.MainFile:
		s.resolveTrackRefs(el)
	case scene.IfoPlane:
		s.writeIfoPlane(el, node)
	case scene.IfoMeshHeightmap:
		s.writeHeightmap(el, node)
	}
}

// durableTrackRefs swaps the ordinal ModelID/ParticleID of a track element
// for a reference by node name, which survives reordering and deletion of
// siblings. Unresolvable ordinals are left untouched.
func (s *Session) durableTrackRefs(te *cfgxml.Element, node *scene.Node) {
	mainFile := mainFileOf(node)
	if mainFile == nil {
		return
	}
	if modelID, err := strconv.Atoi(te.GetText("ModelID", "-1")); err == nil && modelID >= 0 {
		for _, m := range mainFile.ChildrenOfKind(scene.Model) {
			if m.ImportIndex == modelID {
				te.Take("ModelID")
				te.SubElement("BlenderModelID").Text = m.Name
				break
			}
		}
	}
	if particleID, err := strconv.Atoi(te.GetText("ParticleID", "-1")); err == nil && particleID >= 0 {
		for _, p := range mainFile.ChildrenOfKind(scene.Particle) {
			if p.ImportIndex == particleID {
				te.Take("ParticleID")
				te.SubElement("BlenderParticleID").Text = p.Name
				break
			}
		}
	}
}

// resolveTrackRefs is the export-time inverse: durable name references
// become the current ordinals of the models and particles actually
// serialized. A dangling reference warns and falls back to index 0.
func (s *Session) resolveTrackRefs(el *cfgxml.Element) {
	modelIndex := make(map[string]int)
	for i, m := range el.FindAll("Models/Config") {
		modelIndex[m.GetText("Name", "")] = i
	}
	particleIndex := make(map[string]int)
	for i, p := range el.FindAll("Particles/Config") {
		particleIndex[p.GetText("Name", "")] = i
	}
	for _, seq := range el.FindAll("Sequences") {
		for _, cfg := range seq.FindAll("Config") {
			for _, track := range cfg.FindAll("Track") {
				for _, te := range track.FindAll("TrackElement") {
					if ref := te.Take("BlenderModelID"); ref != nil {
						name := bareName(ref.Text)
						id, ok := modelIndex[name]
						if !ok {
							s.logger.Warn("unresolved model reference, using model 0",
								"reference", ref.Text)
						}
						te.SubElement("ModelID").Text = strconv.Itoa(id)
					}
					if ref := te.Take("BlenderParticleID"); ref != nil {
						name := bareName(ref.Text)
						id, ok := particleIndex[name]
						if !ok {
							s.logger.Warn("unresolved particle reference, using particle 0",
								"reference", ref.Text)
						}
						te.SubElement("ParticleID").Text = strconv.Itoa(id)
					}
				}
			}
		}
	}
}

// expandAnimations turns a model's animation list into child nodes, each
// remembering its owning model file and its original position.
func (s *Session) expandAnimations(el *cfgxml.Element, node *scene.Node) {
	if !s.opts.ExpandAnimations {
		return
	}
	anims := el.Find("Animations")
	if anims == nil {
		return
	}
	container := scene.NewNode(scene.AnimationsNode)
	container.Name = "ANIMATIONS_" + bareName(node.Name)
	node.AddChild(container)
	fileName := el.GetText("FileName", "")
	for i, animEl := range append([]*cfgxml.Element(nil), anims.Children...) {
		animEl.SubElement("ModelFileName").Text = fileName
		animEl.SubElement("AnimationIndex").Text = strconv.Itoa(i)
		child := s.parse(animEl, scene.Animation, container)
		child.ImportIndex = i
	}
	el.Remove(anims)
}

// collectAnimations reassembles the Animations container from child nodes
// on export, restoring the original ordering via the injected index.
func (s *Session) collectAnimations(el *cfgxml.Element, node *scene.Node) {
	if el.Find("Animations") != nil {
		return
	}
	for _, container := range node.ChildrenOfKind(scene.AnimationsNode) {
		animsEl := el.FindOrCreate("Animations")
		var animEls []*cfgxml.Element
		for _, animNode := range container.ChildrenOfKind(scene.Animation) {
			animEls = append(animEls, s.serialize(animNode, nil))
		}
		sort.SliceStable(animEls, func(i, j int) bool {
			a, _ := strconv.Atoi(animEls[i].GetText("AnimationIndex", "0"))
			b, _ := strconv.Atoi(animEls[j].GetText("AnimationIndex", "0"))
			return a < b
		})
		for _, ae := range animEls {
			ae.Take("AnimationIndex")
			animsEl.Append(ae)
		}
	}
}

// loadSubFile parses the referenced document as a nested scene. A missing
// or unreadable file degrades to an empty placeholder so the reference
// itself still round-trips.
func (s *Session) loadSubFile(el *cfgxml.Element, node *scene.Node) {
	if !s.opts.LoadSubfiles || s.opener == nil {
		return
	}
	dataPath := el.GetText("FileName", "")
	if dataPath == "" {
		return
	}
	doc, err := s.loadDocument(dataPath)
	if err != nil {
		s.logger.Warn("subfile not loadable, using empty placeholder",
			"file", dataPath, "error", err)
		placeholder := scene.NewNode(scene.MainFile)
		placeholder.Name = "MAIN_FILE_" + path.Base(dataPath)
		node.AddChild(placeholder)
		return
	}
	fileNode := s.parse(doc.Clone(), scene.MainFile, node)
	fileNode.Name = "MAIN_FILE_" + path.Base(dataPath)
}

// attachPropData decorates a prop node with the material scraped from its
// .prp blueprint. Failure is informational only; the file reference in the
// property tree is what round-trips.
func (s *Session) attachPropData(el *cfgxml.Element, node *scene.Node) {
	if s.opener == nil {
		return
	}
	propFile := el.GetText("FileName", "")
	if propFile == "" {
		return
	}
	info, err := s.PropData(propFile)
	if err != nil {
		s.logger.Debug("prop blueprint not loadable", "file", propFile, "error", err)
		return
	}
	node.Materials = append(node.Materials, info.Material)
}

// parseIfoPlane lifts the Position list into flat mesh vertices on the
// ground plane.
func (s *Session) parseIfoPlane(el *cfgxml.Element, node *scene.Node) {
	mesh := &transform.Mesh{}
	for _, pos := range el.FindAll("Position") {
		x := pos.GetFloat("xf", 0)
		if s.opts.MirrorModels {
			x = -x
		}
		y := -pos.GetFloat("zf", 0)
		mesh.Vertices = append(mesh.Vertices, [3]float32{float32(x), float32(y), 0})
		el.Remove(pos)
	}
	node.Mesh = mesh
}

// writeIfoPlane emits the vertices back as Position nodes. Build blockers
// snap to half units, matching what the game accepts.
func (s *Session) writeIfoPlane(el *cfgxml.Element, node *scene.Node) {
	if node.Mesh == nil {
		return
	}
	for _, v := range node.Mesh.Vertices {
		x := float64(v[0])
		if s.opts.MirrorModels {
			x = -x
		}
		y := -float64(v[1])
		if el.Tag == "BuildBlocker" {
			x = math.Round(x*2) / 2
			y = math.Round(y*2) / 2
		}
		pos := el.SubElement("Position")
		pos.SubElement("xf").Text = cfgxml.FormatFloat(x)
		pos.SubElement("zf").Text = cfgxml.FormatFloat(y)
	}
}

// parseHeightmap expands the height grid into mesh vertices; everything
// except the raw map stays in the property tree.
func (s *Session) parseHeightmap(el *cfgxml.Element, node *scene.Node) {
	hm := el.Find("Heightmap")
	if hm == nil {
		return
	}
	mp := hm.Find("Map")
	if mp == nil {
		return
	}
	startX := el.GetFloat("StartPos/x", 0)
	startY := el.GetFloat("StartPos/y", 0)
	stepX := el.GetFloat("StepSize/x", 0)
	stepY := el.GetFloat("StepSize/y", 0)
	width := int(el.GetFloat("Heightmap/Width", 0))
	height := int(el.GetFloat("Heightmap/Height", 0))
	heights := make([]float64, 0, len(mp.Children))
	for _, i := range mp.Children {
		v, err := strconv.ParseFloat(strings.TrimSpace(i.Text), 64)
		if err != nil {
			v = 0
		}
		heights = append(heights, v)
	}
	// A truncated map can not be expanded into a full grid. Leave the
	// element untouched so the partial data still round-trips.
	if len(heights) < width*height {
		s.logger.Warn("heightmap smaller than declared grid",
			"expected", width*height, "got", len(heights))
		return
	}
	mesh := &transform.Mesh{}
	i := 0
	for a := 0; a < height; a++ {
		for b := 0; b < width; b++ {
			mesh.Vertices = append(mesh.Vertices, [3]float32{
				float32(startX + float64(b)*stepX),
				float32(-(startY + float64(a)*stepY)),
				float32(heights[i]),
			})
			i++
		}
	}
	node.Mesh = mesh
	hm.Remove(mp)
}

// writeHeightmap emits the vertex heights back into Heightmap/Map.
func (s *Session) writeHeightmap(el *cfgxml.Element, node *scene.Node) {
	if node.Mesh == nil {
		return
	}
	mapEl := el.FindOrCreate("Heightmap").SubElement("Map")
	for _, v := range node.Mesh.Vertices {
		mapEl.SubElement("i").Text = cfgxml.FormatFloat(float64(v[2]))
	}
}

// mainFileOf climbs to the nearest enclosing main-file node.
func mainFileOf(node *scene.Node) *scene.Node {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Kind == scene.MainFile {
			return n
		}
	}
	return nil
}
