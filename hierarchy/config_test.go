package hierarchy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/janelia-flyem/amr/amr"
)

const testConfig = `
[logging]
logfile = "logs/amr.log"
max_log_size = 10
max_log_age = 7

[cache]
size = 2

[serialization]
compression = "zstd"
checksum = "crc32"

[grid]
description = "xyz"
origin = [0.0, 0.0, 0.0]

[[level]]
spacing = [1.0, 1.0, 1.0]
ratio = 2
  [[level.box]]
  lo = [0, 0, 0]
  hi = [15, 15, 15]
  [[level.box]]
  lo = [16, 0, 0]
  hi = [31, 15, 15]

[[level]]
spacing = [0.5, 0.5, 0.5]
ratio = 2
  [[level.grid]]
  origin = [4.0, 4.0, 4.0]
  cells = [16, 16, 16]
  [[level.box]]
  lo = [24, 0, 0]
  hi = [39, 7, 7]
`

func writeConfig(t *testing.T, contents string) string {
	filename := filepath.Join(t.TempDir(), "hierarchy.toml")
	if err := os.WriteFile(filename, []byte(contents), 0644); err != nil {
		t.Fatalf("Unable to write config: %v\n", err)
	}
	return filename
}

func TestLoadConfig(t *testing.T) {
	filename := writeConfig(t, testConfig)
	c, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("Unable to load config: %v\n", err)
	}
	expectedLog := filepath.Join(filepath.Dir(filename), "logs", "amr.log")
	if c.Logging.Logfile != expectedLog {
		t.Errorf("Expected logfile %q, got %q\n", expectedLog, c.Logging.Logfile)
	}
	if c.Logging.MaxSize != 10 || c.Logging.MaxAge != 7 {
		t.Errorf("Bad log rotation settings: %v\n", c.Logging)
	}
	if c.CacheBytes() != 2*Mega {
		t.Errorf("Expected cache of %d bytes, got %d\n", 2*Mega, c.CacheBytes())
	}
	compress, checksum, err := c.Framing()
	if err != nil {
		t.Fatalf("Bad framing config: %v\n", err)
	}
	if compress != amr.Zstd || checksum != amr.CRC32 {
		t.Errorf("Expected zstd and crc32, got %s, %s\n", compress, checksum)
	}

	h, err := c.Hierarchy()
	if err != nil {
		t.Fatalf("Unable to build hierarchy: %v\n", err)
	}
	if err := h.Validate(context.Background()); err != nil {
		t.Errorf("Configured hierarchy doesn't validate: %v\n", err)
	}
	// Boxes of a level precede its grids.
	box, err := h.Box(1, 1)
	if err != nil {
		t.Fatalf("Unable to get box: %v\n", err)
	}
	if box != cube(8, 23) {
		t.Errorf("Expected grid block %s, got %s\n", cube(8, 23), box)
	}
	testRelationsReordered(t, h)
}

// testRelationsReordered checks relations where the level 1 blocks were added in
// the reverse order of makeTestHierarchy.
func testRelationsReordered(t *testing.T, h *Hierarchy) {
	parents, err := h.Parents(1, 0)
	if err != nil {
		t.Fatalf("Unable to get parents: %v\n", err)
	}
	checkIndices(t, "parents of 1/0", parents, 0, 1)
	children, err := h.Children(0, 0)
	if err != nil {
		t.Fatalf("Unable to get children: %v\n", err)
	}
	checkIndices(t, "children of 0/0", children, 0, 1)
}

func TestBadConfig(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("Expected error with no config file\n")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Expected error with missing config file\n")
	}
	if _, err := LoadConfig(writeConfig(t, "[grid\n")); err == nil {
		t.Errorf("Expected error with malformed TOML\n")
	}

	c, err := LoadConfig(writeConfig(t, "[grid]\ndescription = \"diagonal\"\n"))
	if err != nil {
		t.Fatalf("Unable to load config: %v\n", err)
	}
	if _, err = c.Hierarchy(); err == nil {
		t.Errorf("Expected error with bad grid description\n")
	}

	c, err = LoadConfig(writeConfig(t, "[serialization]\ncompression = \"lz4\"\n"))
	if err != nil {
		t.Fatalf("Unable to load config: %v\n", err)
	}
	if _, _, err = c.Framing(); err == nil {
		t.Errorf("Expected error with unknown compression\n")
	}

	planeConfig := `
[grid]
description = "xy"

[[level]]
spacing = [1.0, 1.0, 1.0]
  [[level.box]]
  lo = [0, 0, 0]
  hi = [7, 7, 0]
`
	c, err = LoadConfig(writeConfig(t, planeConfig))
	if err != nil {
		t.Fatalf("Unable to load config: %v\n", err)
	}
	h, err := c.Hierarchy()
	if err != nil {
		t.Fatalf("Unable to build plane hierarchy: %v\n", err)
	}
	lvl, _ := h.Level(0)
	if lvl.Ratio != 2 {
		t.Errorf("Expected default ratio 2, got %d\n", lvl.Ratio)
	}
	if h.GridDescription() != amr.XYPlane || lvl.Boxes[0].NumberOfCells() != 64 {
		t.Errorf("Bad plane hierarchy: %s %v\n", h.GridDescription(), lvl.Boxes)
	}
}
