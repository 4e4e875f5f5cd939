// Command-line tool for AMR boxes and hierarchies.
// Provides box arithmetic and hierarchy validation, encoding, and decoding.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/janelia-flyem/amr/amr"
	"github.com/janelia-flyem/amr/hierarchy"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Send log messages to this file instead of stdout.
	logfile = flag.String("log", "", "")

	// Destination of command output.
	out io.Writer = os.Stdout
)

const helpMessage = `
amrbox is a command-line tool for block-structured AMR index spaces

Usage: amrbox [options] <command>

      -log        =string   Send log messages to this file.
      -verbose    (flag)    Run in verbose mode.
  -h, -help       (flag)    Show help message

Commands:

	about
	help
	info   <config.toml>
	encode <config.toml> <output file> [compression=none|snappy|zstd] [checksum=none|crc32]
	decode <encoded file> [cache=<MB>]
	box    <lo> <hi> <grid> <op> [args...] [sep=,]

  Box corners are given as "x,y,z" and grids as one of: %s

  Box operations:

	cells
	nodes
	refine    <ratio>
	coarsen   <ratio>
	cover     <ratio>
	grow      <n>
	shrink    <n>
	shift     <dx,dy,dz>
	intersect <lo> <hi>
	contains  <x,y,z>
	bounds    <origin x,y,z> <spacing x,y,z>
	serialize
`

var usage = func() {
	fmt.Printf(helpMessage, strings.Join(amr.ListGridDescriptions(), ", "))
}

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}

	if *runVerbose {
		amr.SetLogMode(amr.DebugMode)
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *logfile != "" {
		logConfig := amr.LogConfig{Logfile: *logfile}
		logConfig.SetLogger()
	}
	defer amr.Shutdown()

	command := Command(flag.Args())
	if err := DoCommand(command); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		amr.Shutdown()
		os.Exit(1)
	}
}

// DoCommand serves as a switchboard for commands.
func DoCommand(cmd Command) error {
	if len(cmd) == 0 {
		return fmt.Errorf("Blank command!")
	}

	switch cmd.Name() {
	case "about":
		fmt.Fprintf(out, "amrbox %s\n", amr.Version)
		fmt.Fprintf(out, "Box layout: %d bytes, little endian\n", amr.BoxBytes)
	case "info":
		return DoInfo(cmd)
	case "encode":
		return DoEncode(cmd)
	case "decode":
		return DoDecode(cmd)
	case "box":
		return DoBox(cmd)
	default:
		return fmt.Errorf("Unknown command: %q", cmd)
	}
	return nil
}

func loadConfig(filename string) (*hierarchy.Config, *hierarchy.Hierarchy, error) {
	config, err := hierarchy.LoadConfig(filename)
	if err != nil {
		return nil, nil, err
	}
	if *logfile == "" && config.Logging.Logfile != "" {
		config.Logging.SetLogger()
	}
	h, err := config.Hierarchy()
	if err != nil {
		return nil, nil, err
	}
	if err := h.Validate(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("hierarchy in %q is invalid: %v", filename, err)
	}
	return config, h, nil
}

func printStats(h *hierarchy.Hierarchy) {
	stats := h.Stats()
	fmt.Fprintf(out, "%s hierarchy with origin %s and %d levels\n", h.GridDescription(), h.Origin(), stats.Levels)
	for level := 0; level < stats.Levels; level++ {
		lvl, err := h.Level(level)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "  Level %d: spacing %s, ratio %d, %d blocks, %s cells\n", level, lvl.Spacing,
			lvl.Ratio, stats.Blocks[level], humanize.Comma(stats.Cells[level]))
		if amr.Verbose() {
			for i, box := range lvl.Boxes {
				fmt.Fprintf(out, "    %d: %s\n", i, box)
			}
		}
	}
	fmt.Fprintf(out, "Memory used by levels: %s\n", humanize.Bytes(uint64(stats.Bytes)))
}

// DoInfo validates the hierarchy described by a TOML file and prints its statistics.
func DoInfo(cmd Command) error {
	var filename string
	cmd.CommandArgs(&filename)
	if filename == "" {
		return fmt.Errorf("info command must be followed by a TOML config file")
	}
	_, h, err := loadConfig(filename)
	if err != nil {
		return err
	}
	printStats(h)
	return nil
}

// DoEncode writes the framed encoding of the hierarchy described by a TOML file.
// Compression and checksum settings on the command line override the config.
func DoEncode(cmd Command) error {
	var filename, outname string
	cmd.CommandArgs(&filename, &outname)
	if filename == "" || outname == "" {
		return fmt.Errorf("encode command must be followed by a TOML config file and output file")
	}
	config, h, err := loadConfig(filename)
	if err != nil {
		return err
	}
	compress, checksum, err := config.Framing()
	if err != nil {
		return err
	}
	if s, found := cmd.Parameter(KeyCompression); found {
		if compress, err = amr.CompressionFromString(s); err != nil {
			return err
		}
	}
	if s, found := cmd.Parameter(KeyChecksum); found {
		if checksum, err = amr.ChecksumFromString(s); err != nil {
			return err
		}
	}
	data, err := h.Encode(compress, checksum)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outname, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s to %s (%s, %s)\n", humanize.Bytes(uint64(len(data))), outname, compress, checksum)
	return nil
}

// DoDecode reads and validates an encoded hierarchy and prints its statistics.
func DoDecode(cmd Command) error {
	var filename string
	cmd.CommandArgs(&filename)
	if filename == "" {
		return fmt.Errorf("decode command must be followed by an encoded hierarchy file")
	}
	var cacheBytes int
	if s, found := cmd.Parameter(KeyCache); found {
		mbs, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("bad cache size %q: %v", s, err)
		}
		cacheBytes = mbs * hierarchy.Mega
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	h, err := hierarchy.Decode(data, cacheBytes)
	if err != nil {
		return err
	}
	if err := h.Validate(context.Background()); err != nil {
		return fmt.Errorf("hierarchy in %q is invalid: %v", filename, err)
	}
	printStats(h)
	return nil
}

// DoBox applies an operation to a box given on the command line and prints the result.
func DoBox(cmd Command) error {
	var loStr, hiStr, descStr, op string
	args := cmd.CommandArgs(&loStr, &hiStr, &descStr, &op)
	if op == "" {
		return fmt.Errorf("box command must be followed by <lo> <hi> <grid> <op>")
	}
	sep, found := cmd.Parameter(KeySeparator)
	if !found {
		sep = ","
	}
	box, err := amr.NewBoxFromStrings(loStr, hiStr, descStr, sep)
	if err != nil {
		return err
	}
	amr.Debugf("Applying %q to %s\n", op, box)

	needArgs := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("box operation %q needs %d argument(s)", op, n)
		}
		return nil
	}
	int32Arg := func() (int32, error) {
		if err := needArgs(1); err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad argument %q for %s: %v", args[0], op, err)
		}
		return int32(v), nil
	}
	ratioArg := func() (int32, error) {
		r, err := int32Arg()
		if err == nil && r < 1 {
			err = fmt.Errorf("ratio must be positive, got %d", r)
		}
		return r, err
	}

	switch strings.ToLower(op) {
	case "cells":
		fmt.Fprintf(out, "%d\n", box.NumberOfCells())
	case "nodes":
		fmt.Fprintf(out, "%s %d\n", box.NodeDimensions(), box.NumberOfNodes())
	case "refine":
		r, err := ratioArg()
		if err != nil {
			return err
		}
		box.Refine(r)
		fmt.Fprintln(out, box)
	case "coarsen":
		r, err := ratioArg()
		if err != nil {
			return err
		}
		box.Coarsen(r)
		fmt.Fprintln(out, box)
	case "cover":
		r, err := ratioArg()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, box.CoarseCover(r))
	case "grow":
		n, err := int32Arg()
		if err != nil {
			return err
		}
		box.Grow(n)
		fmt.Fprintln(out, box)
	case "shrink":
		n, err := int32Arg()
		if err != nil {
			return err
		}
		box.Shrink(n)
		fmt.Fprintln(out, box)
	case "shift":
		if err := needArgs(1); err != nil {
			return err
		}
		delta, err := amr.StringToPoint3d(args[0], sep)
		if err != nil {
			return err
		}
		box.Shift(delta)
		fmt.Fprintln(out, box)
	case "intersect":
		if err := needArgs(2); err != nil {
			return err
		}
		other, err := amr.NewBoxFromStrings(args[0], args[1], descStr, sep)
		if err != nil {
			return err
		}
		if box.Intersect(other) {
			fmt.Fprintln(out, box)
		} else {
			fmt.Fprintln(out, "no overlap")
		}
	case "contains":
		if err := needArgs(1); err != nil {
			return err
		}
		p, err := amr.StringToPoint3d(args[0], sep)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, box.ContainsPoint(p))
	case "bounds":
		if err := needArgs(2); err != nil {
			return err
		}
		origin, err := amr.StringToVector3d(args[0], sep)
		if err != nil {
			return err
		}
		spacing, err := amr.StringToVector3d(args[1], sep)
		if err != nil {
			return err
		}
		lower, upper := box.Bounds(origin, spacing)
		fmt.Fprintf(out, "%s-%s\n", lower, upper)
	case "serialize":
		fmt.Fprintf(out, "%x\n", box.Serialize())
	default:
		return fmt.Errorf("Unknown box operation %q", op)
	}
	return nil
}
