package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer
	saved := out
	out = &buf
	defer func() { out = saved }()
	err := DoCommand(Command(args))
	return buf.String(), err
}

func TestCommandArgs(t *testing.T) {
	cmd := Command{"Encode", "a.toml", "compression=zstd", "b.bin", "extra"}
	if cmd.Name() != "encode" {
		t.Errorf("Expected lowercase name, got %q\n", cmd.Name())
	}
	var a, b string
	overflow := cmd.CommandArgs(&a, &b)
	if a != "a.toml" || b != "b.bin" {
		t.Errorf("Bad positional args: %q %q\n", a, b)
	}
	if len(overflow) != 1 || overflow[0] != "extra" {
		t.Errorf("Bad overflow: %v\n", overflow)
	}
	if v, found := cmd.Parameter(KeyCompression); !found || v != "zstd" {
		t.Errorf("Expected compression parameter zstd, got %q, %t\n", v, found)
	}
	if _, found := cmd.Parameter(KeyChecksum); found {
		t.Errorf("Expected no checksum parameter\n")
	}
}

func TestBoxCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"box", "0,0,0", "7,7,7", "xyz", "cells"}, "512"},
		{[]string{"box", "0,0,0", "7,7,0", "xy", "nodes"}, "(9,9,1) 81"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "refine", "2"}, "XYZ grid (16,16,16)-(33,33,33)"},
		{[]string{"box", "-4,-4,3", "-1,-1,3", "xy", "coarsen", "2"}, "XY plane (-2,-2,3)-(-1,-1,3)"},
		{[]string{"box", "1,1,1", "2,2,2", "xyz", "cover", "2"}, "XYZ grid (0,0,0)-(1,1,1)"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "grow", "2"}, "XYZ grid (6,6,6)-(18,18,18)"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "shrink", "2"}, "XYZ grid (10,10,10)-(14,14,14)"},
		{[]string{"box", "8,4,8", "16,4,16", "xz", "shift", "1,1,1"}, "XZ plane (9,4,9)-(17,4,17)"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "intersect", "10,10,10", "20,20,20"}, "XYZ grid (10,10,10)-(16,16,16)"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "intersect", "17,10,10", "20,20,20"}, "no overlap"},
		{[]string{"box", "8,8,8", "16,16,16", "xyz", "contains", "16,8,12"}, "true"},
		{[]string{"box", "0,0,0", "3,3,3", "xyz", "bounds", "1,1,1", "0.5,0.5,0.5"}, "(1,1,1)-(3,3,3)"},
		{[]string{"box", "1;2;3", "4;5;6", "xz", "serialize", "sep=;"}, "02000000010000000200000003000000040000000500000006000000"},
	}
	for _, tc := range tests {
		output, err := runCommand(t, tc.args...)
		if err != nil {
			t.Errorf("%v: unexpected error %v\n", tc.args, err)
			continue
		}
		if strings.TrimSpace(output) != tc.expected {
			t.Errorf("%v: expected %q, got %q\n", tc.args, tc.expected, strings.TrimSpace(output))
		}
	}

	bad := [][]string{
		{"box", "0,0,0", "7,7,7"},
		{"box", "0,0", "7,7,7", "xyz", "cells"},
		{"box", "0,0,0", "7,7,7", "xyz", "refine"},
		{"box", "0,0,0", "7,7,7", "xyz", "refine", "0"},
		{"box", "0,0,0", "7,7,7", "xyz", "grow", "two"},
		{"box", "0,0,0", "7,7,7", "xyz", "twist"},
		{"frobnicate"},
	}
	for _, args := range bad {
		if _, err := runCommand(t, args...); err == nil {
			t.Errorf("%v: expected error\n", args)
		}
	}
}

const cmdTestConfig = `
[serialization]
compression = "snappy"

[[level]]
spacing = [1.0, 1.0, 1.0]
ratio = 2
  [[level.box]]
  lo = [0, 0, 0]
  hi = [15, 15, 15]

[[level]]
spacing = [0.5, 0.5, 0.5]
  [[level.box]]
  lo = [8, 8, 8]
  hi = [23, 23, 23]
`

func TestHierarchyCommands(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "h.toml")
	if err := os.WriteFile(config, []byte(cmdTestConfig), 0644); err != nil {
		t.Fatalf("Unable to write config: %v\n", err)
	}
	output, err := runCommand(t, "info", config)
	if err != nil {
		t.Fatalf("info failed: %v\n", err)
	}
	if !strings.Contains(output, "2 levels") || !strings.Contains(output, "4,096 cells") {
		t.Errorf("Unexpected info output:\n%s\n", output)
	}

	encoded := filepath.Join(dir, "h.bin")
	if _, err = runCommand(t, "encode", config, encoded, "checksum=crc32"); err != nil {
		t.Fatalf("encode failed: %v\n", err)
	}
	output, err = runCommand(t, "decode", encoded, "cache=1")
	if err != nil {
		t.Fatalf("decode failed: %v\n", err)
	}
	if !strings.Contains(output, "XYZ grid hierarchy") || !strings.Contains(output, "Level 1") {
		t.Errorf("Unexpected decode output:\n%s\n", output)
	}

	if _, err = runCommand(t, "encode", config, encoded, "compression=lz4"); err == nil {
		t.Errorf("Expected error with unknown compression\n")
	}
	if _, err = runCommand(t, "decode", config); err == nil {
		t.Errorf("Expected error decoding a TOML file\n")
	}
	if _, err = runCommand(t, "decode", encoded, "cache=big"); err == nil {
		t.Errorf("Expected error with bad cache size\n")
	}
	if _, err = runCommand(t, "info"); err == nil {
		t.Errorf("Expected error with no config file\n")
	}
	if output, err = runCommand(t, "about"); err != nil || !strings.Contains(output, "amrbox") {
		t.Errorf("Bad about output %q: %v\n", output, err)
	}
}
