package mapper

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/material"
)

// FileOpener resolves an engine data path ("data/graphics/.../x.cfg") to
// readable content. internal/assets provides the disk-backed
// implementation with mod-directory fallback.
type FileOpener interface {
	Open(dataPath string) (io.ReadCloser, error)
}

// Options tune one mapping session.
type Options struct {
	// MirrorModels selects the X-mirrored coordinate conversion.
	MirrorModels bool
	// LoadSubfiles recursively parses the documents referenced by
	// file nodes. Without an opener it is ignored.
	LoadSubfiles bool
	// ExpandAnimations turns a model's animation list into child nodes.
	ExpandAnimations bool
	// TextureQuality is the on-disk texture variant suffix, e.g. "0".
	TextureQuality string
}

// PropInfo is the descriptor scraped from a .prp blueprint: the mesh it
// renders and the material built from its texture paths.
type PropInfo struct {
	MeshFile string
	Material *material.Material
}

// Session runs one import or export. Its caches live exactly as long as
// the session, so repeated references inside one document are collapsed
// without leaking state into the next.
type Session struct {
	logger *slog.Logger
	opts   Options
	opener FileOpener

	materials *material.Cache
	subfiles  map[string]*cfgxml.Element
	props     map[string]*PropInfo
}

// NewSession returns a session with fresh caches. logger may be nil,
// opener may be nil when no file loading is wanted.
func NewSession(logger *slog.Logger, opener FileOpener, opts Options) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TextureQuality == "" {
		opts.TextureQuality = "0"
	}
	return &Session{
		logger:    logger,
		opts:      opts,
		opener:    opener,
		materials: material.NewCache(),
		subfiles:  make(map[string]*cfgxml.Element),
		props:     make(map[string]*PropInfo),
	}
}

// Materials exposes the session's material cache.
func (s *Session) Materials() *material.Cache { return s.materials }

// loadDocument fetches and parses an XML document by data path, caching
// the parsed tree for the rest of the session.
func (s *Session) loadDocument(dataPath string) (*cfgxml.Element, error) {
	if doc, ok := s.subfiles[dataPath]; ok {
		return doc, nil
	}
	if s.opener == nil {
		return nil, fmt.Errorf("mapper: no file opener configured")
	}
	rc, err := s.opener.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("mapper: open %s: %w", dataPath, err)
	}
	defer rc.Close()
	doc, err := cfgxml.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("mapper: parse %s: %w", dataPath, err)
	}
	s.subfiles[dataPath] = doc
	return doc, nil
}

var (
	propMeshRe  = regexp.MustCompile(`(?i)<MeshFileName>(.*?)<`)
	propDiffRe  = regexp.MustCompile(`(?i)<(?:cModelDiffTex|cPropDiffuseTex)>(.*?)<`)
	propNormRe  = regexp.MustCompile(`(?i)<(?:cModelNormalTex|cPropNormalTex)>(.*?)<`)
	propMetalRe = regexp.MustCompile(`(?i)<(?:cModelMetallicTex|cPropMetallicTex)>(.*?)<`)
)

// PropData scrapes the mesh path and texture material out of a .prp
// blueprint. Blueprints are plain text scanned with regexes, matching how
// the format is handled in practice, and cached by filename.
func (s *Session) PropData(propFile string) (*PropInfo, error) {
	if info, ok := s.props[propFile]; ok {
		return info, nil
	}
	if s.opener == nil {
		return nil, fmt.Errorf("mapper: no file opener configured")
	}
	rc, err := s.opener.Open(propFile)
	if err != nil {
		return nil, fmt.Errorf("mapper: open %s: %w", propFile, err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("mapper: read %s: %w", propFile, err)
	}

	firstMatch := func(re *regexp.Regexp) string {
		m := re.FindSubmatch(content)
		if m == nil {
			return ""
		}
		return string(m[1])
	}

	mat := material.New(false)
	mat.Name = propFile
	mat.Texture["diffuse"] = firstMatch(propDiffRe)
	mat.Texture["normal"] = firstMatch(propNormRe)
	mat.Texture["metallic"] = firstMatch(propMetalRe)
	info := &PropInfo{
		MeshFile: firstMatch(propMeshRe),
		Material: s.materials.Intern(mat),
	}
	s.props[propFile] = info
	return info, nil
}
