package hierarchy

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/janelia-flyem/amr/amr"
)

// Mega is the number of bytes in a megabyte, the unit of cache sizes.
const Mega = 1 << 20

// Config is a hierarchy description read from a TOML file, e.g.,
//
//	[logging]
//	logfile = "amr.log"
//	max_log_size = 500 # MB
//	max_log_age = 30   # days
//
//	[cache]
//	size = 16 # MB
//
//	[serialization]
//	compression = "zstd"
//	checksum = "crc32"
//
//	[grid]
//	description = "xyz"
//	origin = [0.0, 0.0, 0.0]
//
//	[[level]]
//	spacing = [1.0, 1.0, 1.0]
//	ratio = 2
//	  [[level.box]]
//	  lo = [0, 0, 0]
//	  hi = [31, 31, 31]
//
//	[[level]]
//	spacing = [0.5, 0.5, 0.5]
//	ratio = 2
//	  [[level.grid]]
//	  origin = [4.0, 4.0, 4.0]
//	  cells = [16, 16, 16]
type Config struct {
	Logging       amr.LogConfig
	Cache         sizeConfig
	Serialization serializationConfig
	Grid          gridConfig
	Level         []levelConfig
}

type sizeConfig struct {
	Size int // MB
}

type serializationConfig struct {
	Compression string
	Checksum    string
}

type gridConfig struct {
	Description string
	Origin      amr.Vector3d
}

type levelConfig struct {
	Spacing amr.Vector3d
	Ratio   int32
	Box     []boxConfig
	Grid    []blockConfig
}

type boxConfig struct {
	Lo amr.Point3d
	Hi amr.Point3d
}

// blockConfig places a block by its real-space origin and number of cells.
type blockConfig struct {
	Origin amr.Vector3d
	Cells  amr.Point3d
}

// LoadConfig loads a hierarchy description from a TOML file.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no TOML configuration file provided")
	}
	var c Config
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %v", err)
	}
	if err := c.convertPathsToAbsolute(filename); err != nil {
		return nil, fmt.Errorf("could not convert relative paths to absolute paths in TOML config: %v", err)
	}
	return &c, nil
}

// Some settings in the TOML can be given as relative paths.
// This function converts them in-place to absolute paths,
// assuming the given paths were relative to the TOML file's own directory.
func (c *Config) convertPathsToAbsolute(configPath string) error {
	var err error

	configDir := filepath.Dir(configPath)

	// [logging].logfile
	if c.Logging.Logfile != "" {
		c.Logging.Logfile, err = convertToAbsolute(c.Logging.Logfile, configDir)
		if err != nil {
			return fmt.Errorf("Error converting logfile setting to absolute path")
		}
	}
	return nil
}

// convertToAbsolute returns path unchanged if it is absolute, otherwise joins it
// to dir and makes the result absolute.
func convertToAbsolute(path, dir string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(filepath.Join(dir, path))
}

// CacheBytes returns the relation cache size in bytes.
func (c *Config) CacheBytes() int {
	return c.Cache.Size * Mega
}

// Framing returns the configured compression and checksum.
func (c *Config) Framing() (amr.Compression, amr.Checksum, error) {
	compress, err := amr.CompressionFromString(c.Serialization.Compression)
	if err != nil {
		return amr.Uncompressed, amr.NoChecksum, err
	}
	checksum, err := amr.ChecksumFromString(c.Serialization.Checksum)
	if err != nil {
		return amr.Uncompressed, amr.NoChecksum, err
	}
	return compress, checksum, nil
}

// Hierarchy builds the configured hierarchy.  Boxes listed for a level are added
// before blocks placed by real-space origin.
func (c *Config) Hierarchy() (*Hierarchy, error) {
	desc := amr.XYZGrid
	if c.Grid.Description != "" {
		var err error
		if desc, err = amr.GridDescriptionString(c.Grid.Description).GridDescription(); err != nil {
			return nil, err
		}
	}
	h := New(c.Grid.Origin, desc, c.CacheBytes())
	for i, lc := range c.Level {
		ratio := lc.Ratio
		if ratio == 0 {
			ratio = 2
		}
		level := h.AddLevel(lc.Spacing, ratio)
		for j, bc := range lc.Box {
			if _, err := h.AddBox(level, amr.NewBox(bc.Lo, bc.Hi, desc)); err != nil {
				return nil, fmt.Errorf("level %d box %d: %v", i, j, err)
			}
		}
		for j, gc := range lc.Grid {
			if _, err := h.AddGrid(level, gc.Origin, gc.Cells); err != nil {
				return nil, fmt.Errorf("level %d grid %d: %v", i, j, err)
			}
		}
	}
	return h, nil
}
