package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anno-mods/annocfg/internal/assets"
	"github.com/anno-mods/annocfg/internal/config"
	"github.com/anno-mods/annocfg/internal/logging"
	"github.com/anno-mods/annocfg/internal/texture"
	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/mapper"
	"github.com/anno-mods/annocfg/pkg/scene"
)

// Logger is the process-wide logger, configured in setup.
var Logger *slog.Logger

func main() {
	setup()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "roundtrip":
		if len(args) < 2 {
			fmt.Println("No input files provided.")
			return
		}
		err = roundtrip(args[1:])
	case "inspect":
		if len(args) < 2 {
			fmt.Println("No input file provided.")
			return
		}
		err = inspect(args[1])
	case "texpreview":
		if len(args) < 2 {
			fmt.Println("No texture path provided.")
			return
		}
		out := ""
		if len(args) > 2 {
			out = args[2]
		}
		err = texPreview(args[1], out)
	default:
		usage()
	}
	if err != nil {
		Logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setup() {
	if err := config.Load("."); err != nil {
		// Running without a config file is fine; defaults apply.
		fmt.Fprintln(os.Stderr, "no config file loaded, using defaults")
	}

	manager := logging.NewSlogManager()
	var logWriter io.Writer
	logsDir := config.GetString("logsDir")
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0o755); err == nil {
			path := logging.LogFilePath(logsDir, "annocfg", time.Now())
			if f, err := os.Create(path); err == nil {
				logWriter = f
			}
		}
	}
	manager.Setup(logWriter, config.GetString("logLevel"), nil)
	Logger = manager.Logger()
}

func usage() {
	fmt.Println("usage: annocfg <command> [args]")
	fmt.Println()
	fmt.Println("  roundtrip <file.cfg|.ifo|.cf7>...  parse and regenerate, report differences")
	fmt.Println("  inspect <file.cfg|.ifo|.cf7>       print the scene tree")
	fmt.Println("  texpreview <texture> [out.webp]    decode a texture and write a thumbnail")
}

func newSession() *mapper.Session {
	var opener mapper.FileOpener
	if config.GameDir() != "" {
		opener = assets.NewResolver(config.GameDir(), config.ModDir(), Logger)
	}
	return mapper.NewSession(Logger, opener, mapper.Options{
		MirrorModels:     config.MirrorModels(),
		LoadSubfiles:     config.LoadSubfiles(),
		ExpandAnimations: config.ExpandAnimations(),
		TextureQuality:   config.TextureQuality(),
	})
}

func parseFile(session *mapper.Session, path string) (*scene.Node, *cfgxml.Element, error) {
	doc, err := cfgxml.DecodeFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	original := doc.Clone()
	var root *scene.Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ifo":
		root, err = session.ParseIfoDocument(doc)
	case ".cf7":
		root, err = session.ParseCf7Document(doc)
	default:
		root, err = session.ParseDocument(doc)
	}
	if err != nil {
		return nil, nil, err
	}
	return root, original, nil
}

func roundtrip(paths []string) error {
	for _, path := range paths {
		session := newSession()
		root, original, err := parseFile(session, path)
		if err != nil {
			return err
		}

		regenerated, err := session.SerializeDocument(root)
		if err != nil {
			return err
		}

		nodes := 0
		root.Walk(func(*scene.Node) bool { nodes++; return true })
		fmt.Printf("%s: %d nodes, %d distinct materials\n", path, nodes, session.Materials().Len())
		if original.Equal(regenerated) {
			fmt.Println("  regenerated document is identical")
		} else {
			fmt.Println("  regenerated document differs (see written output)")
		}

		outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".roundtrip" + filepath.Ext(path)
		data, err := cfgxml.EncodeBytes(regenerated)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Println("  wrote", outPath)
	}
	return nil
}

func inspect(path string) error {
	session := newSession()
	root, _, err := parseFile(session, path)
	if err != nil {
		return err
	}
	printNode(root, 0)
	return nil
}

func printNode(node *scene.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s [%s]", indent, node.Name, node.Kind)
	if node.Transform != nil {
		t := node.Transform
		line += fmt.Sprintf(" loc=(%.2f %.2f %.2f)", t.Location[0], t.Location[1], t.Location[2])
	}
	if len(node.Materials) > 0 {
		line += fmt.Sprintf(" materials=%d", len(node.Materials))
	}
	fmt.Println(line)
	for _, child := range node.Children {
		printNode(child, depth+1)
	}
}

func texPreview(texPath, outPath string) error {
	if config.GameDir() == "" {
		return fmt.Errorf("paths.gameDir is not configured")
	}
	resolver := assets.NewResolver(config.GameDir(), config.ModDir(), Logger)
	loader := texture.NewLoader(resolver, config.TextureQuality(), Logger)

	img, err := loader.Load(texPath)
	if err != nil {
		return err
	}
	thumb := texture.Thumbnail(img, 256)

	if outPath == "" {
		base := filepath.Base(texPath)
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".webp"
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()
	if err := texture.WriteWebP(f, thumb); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	fmt.Println("wrote", outPath)
	return nil
}
