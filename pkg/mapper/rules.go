package mapper

import "github.com/anno-mods/annocfg/pkg/scene"

// orientationTransform is where most node kinds keep their placement.
const orientationTransform = "Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']"

// modelTransformPaths is shared by the kinds that store a uniform Scale
// leaf under the orientation transform.
var modelTransformPaths = map[string]string{
	"base_path":  orientationTransform,
	"location.x": "Position.x",
	"location.y": "Position.y",
	"location.z": "Position.z",
	"rotation.x": "Rotation.x",
	"rotation.y": "Rotation.y",
	"rotation.z": "Rotation.z",
	"rotation.w": "Rotation.w",
	"scale.x":    "Scale",
	"scale.y":    "Scale",
	"scale.z":    "Scale",
}

// dummyTransformPaths is shared by the dummies of feedback encodings and
// .cf7 feedback definitions, which only ever rotate around the vertical
// axis.
var dummyTransformPaths = map[string]string{
	"location.x":       "Position/x",
	"location.y":       "Position/y",
	"location.z":       "Position/z",
	"rotation_euler.y": "RotationY",
	"scale.x":          "Extents/x",
	"scale.y":          "Extents/y",
	"scale.z":          "Extents/z",
}

// containerRule maps one XML child container (or, for inline rules, a
// repeated sibling tag) to the node kind its entries parse into.
type containerRule struct {
	tag  string
	kind scene.Kind
}

// rule is the static schema of one node kind: which typed attachments it
// owns and where its children live. The zero value describes a kind with
// nothing but a property tree.
type rule struct {
	hasName           bool
	hasTransform      bool
	eulerRotation     bool
	enforceEqualScale bool
	hasMaterials      bool
	clothMaterials    bool
	transformPaths    map[string]string

	// containers hold children wrapped in a container element,
	// inline children repeat directly among the node's fields.
	containers []containerRule
	inline     []containerRule
}

var rules = map[scene.Kind]rule{
	scene.MainFile: {
		containers: []containerRule{
			{"Models", scene.Model},
			{"Clothes", scene.Cloth},
			{"Files", scene.SubFile},
			{"PropContainers", scene.Propcontainer},
			{"Particles", scene.Particle},
			{"Lights", scene.Light},
			{"Decals", scene.Decal},
		},
		inline: []containerRule{
			{"Sequences", scene.AnimationSequences},
		},
	},
	scene.Model: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		hasMaterials:      true,
		transformPaths:    modelTransformPaths,
	},
	scene.Cloth: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		hasMaterials:      true,
		clothMaterials:    true,
		transformPaths:    modelTransformPaths,
	},
	scene.SubFile: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		transformPaths:    modelTransformPaths,
	},
	scene.Decal: {
		hasName:      true,
		hasTransform: true,
		hasMaterials: true,
		transformPaths: map[string]string{
			"location.x": orientationTransform + "/Position.x",
			"location.y": orientationTransform + "/Position.y",
			"location.z": orientationTransform + "/Position.z",
			"rotation.x": orientationTransform + "/Rotation.x",
			"rotation.y": orientationTransform + "/Rotation.y",
			"rotation.z": orientationTransform + "/Rotation.z",
			"rotation.w": orientationTransform + "/Rotation.w",
			"scale.x":    "Extents.x",
			"scale.y":    "Extents.y",
			"scale.z":    "Extents.z",
		},
	},
	scene.Prop: {
		hasName:      true,
		hasTransform: true,
		transformPaths: map[string]string{
			"location.x": "Position.x",
			"location.y": "Position.y",
			"location.z": "Position.z",
			"rotation.x": "Rotation.x",
			"rotation.y": "Rotation.y",
			"rotation.z": "Rotation.z",
			"rotation.w": "Rotation.w",
			"scale.x":    "Scale.x",
			"scale.y":    "Scale.y",
			"scale.z":    "Scale.z",
		},
	},
	scene.Propcontainer: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		transformPaths: map[string]string{
			"base_path":  orientationTransform,
			"location.x": "Position.x",
			"location.y": "Position.y",
			"location.z": "Position.z",
			"rotation.x": "Rotation.x",
			"rotation.y": "Rotation.y",
			"rotation.z": "Rotation.z",
			"rotation.w": "Rotation.w",
			"scale.x":    "Scale.x",
			"scale.y":    "Scale.y",
			"scale.z":    "Scale.z",
		},
		containers: []containerRule{
			{"Props", scene.Prop},
		},
	},
	scene.Light: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		transformPaths:    modelTransformPaths,
	},
	scene.Particle: {
		hasName:           true,
		hasTransform:      true,
		enforceEqualScale: true,
		transformPaths:    modelTransformPaths,
	},
	scene.Dummy: {
		hasTransform:   true,
		eulerRotation:  true,
		transformPaths: dummyTransformPaths,
	},
	scene.DummyGroup: {},
	scene.FeedbackConfig: {},
	scene.SimpleFeedbackRoot: {
		containers: []containerRule{
			{"DummyGroups", scene.DummyGroup},
			{"FeedbackConfigs", scene.FeedbackConfig},
		},
	},
	scene.AnimationsNode: {},
	scene.Animation:      {},
	scene.AnimationSequences: {
		inline: []containerRule{
			{"Config", scene.AnimationSequence},
		},
	},
	scene.AnimationSequence: {
		inline: []containerRule{
			{"Track", scene.Track},
		},
	},
	scene.Track:        {},
	scene.TrackElement: {},
	scene.Sequence:     {},
	scene.IfoFile:      {},
	scene.IfoCube: {
		hasTransform: true,
		transformPaths: map[string]string{
			"location.x": "Position/xf",
			"location.y": "Position/yf",
			"location.z": "Position/zf",
			"rotation.x": "Rotation/xf",
			"rotation.y": "Rotation/yf",
			"rotation.z": "Rotation/zf",
			"rotation.w": "Rotation/wf",
			"scale.x":    "Extents/xf",
			"scale.y":    "Extents/yf",
			"scale.z":    "Extents/zf",
		},
	},
	scene.IfoPlane: {},
	scene.IfoMeshHeightmap: {
		hasTransform:   true,
		transformPaths: map[string]string{},
	},
	scene.Cf7File: {
		containers: []containerRule{
			{"DummyRoot/Groups", scene.Cf7DummyGroup},
		},
	},
	scene.Cf7DummyGroup: {
		containers: []containerRule{
			{"Dummies", scene.Cf7Dummy},
		},
	},
	scene.Cf7Dummy: {
		hasTransform:   true,
		eulerRotation:  true,
		transformPaths: dummyTransformPaths,
	},
}

func ruleFor(kind scene.Kind) rule {
	return rules[kind]
}

// ifoKindByTag dispatches .ifo file children on their element tag.
var ifoKindByTag = map[string]scene.Kind{
	"Sequence":                scene.Sequence,
	"BoundingBox":             scene.IfoCube,
	"MeshBoundingBox":         scene.IfoCube,
	"IntersectBox":            scene.IfoCube,
	"Dummy":                   scene.IfoCube,
	"BuildBlocker":            scene.IfoPlane,
	"WaterBlocker":            scene.IfoPlane,
	"FeedbackBlocker":         scene.IfoPlane,
	"PriorityFeedbackBlocker": scene.IfoPlane,
	"UnevenBlocker":           scene.IfoPlane,
	"QuayArea":                scene.IfoPlane,
	"InvisibleQuayArea":       scene.IfoPlane,
	"MeshHeightmap":           scene.IfoMeshHeightmap,
}
