package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./annocfg-logs")

	viper.SetDefault("paths.gameDir", "")
	viper.SetDefault("paths.modDir", "")

	viper.SetDefault("textures.quality", "0")

	viper.SetDefault("import.mirrorModels", false)
	viper.SetDefault("import.loadSubfiles", true)
	viper.SetDefault("import.expandAnimations", false)

	viper.SetConfigName("annocfg.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GameDir is the directory holding the extracted game files.
func GameDir() string { return viper.GetString("paths.gameDir") }

// ModDir is the mod directory layered over the game files, empty when no
// mod is active.
func ModDir() string { return viper.GetString("paths.modDir") }

// TextureQuality is the on-disk texture variant suffix, "0" being the
// highest quality level.
func TextureQuality() string { return viper.GetString("textures.quality") }

// MirrorModels reports whether coordinate conversion mirrors across the
// YZ plane.
func MirrorModels() bool { return viper.GetBool("import.mirrorModels") }

// LoadSubfiles reports whether referenced files are parsed recursively.
func LoadSubfiles() bool { return viper.GetBool("import.loadSubfiles") }

// ExpandAnimations reports whether model animation lists become child
// nodes on import.
func ExpandAnimations() bool { return viper.GetBool("import.expandAnimations") }
