package main

import (
	"strings"
)

// Keys for setting optional arguments within the command line via "key=value" strings.
const (
	KeyCompression = "compression"
	KeyChecksum    = "checksum"
	KeyCache       = "cache"
	KeySeparator   = "sep"
)

var setKeys = map[string]bool{
	KeyCompression: true,
	KeyChecksum:    true,
	KeyCache:       true,
	KeySeparator:   true,
}

// Command is a command line for amrbox.  The first item is the command name and
// the rest are positional arguments or optional settings of the form "<key>=<value>".
type Command []string

// String returns a space-separated command line
func (cmd Command) String() string {
	return strings.Join([]string(cmd), " ")
}

// Name returns the first argument of the command (in lower case) which is assumed
// to be the name of the command.
func (cmd Command) Name() string {
	if len(cmd) == 0 {
		return ""
	}
	return strings.ToLower(cmd[0])
}

// Parameter scans a command for any "key=value" argument and returns the value of
// the passed 'key'.
func (cmd Command) Parameter(key string) (value string, found bool) {
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			elems := strings.SplitN(arg, "=", 2)
			if len(elems) == 2 && elems[0] == key {
				value = elems[1]
				found = true
				return
			}
		}
	}
	return
}

// CommandArgs sets a variadic argument set of string pointers to positional
// arguments after the command name, skipping optional settings.  Any arguments
// beyond the targets are returned as overflow.
func (cmd Command) CommandArgs(targets ...*string) (overflow []string) {
	for _, target := range targets {
		*target = ""
	}
	if len(cmd) < 2 {
		return
	}
	curTarget := 0
	for _, arg := range cmd[1:] {
		elems := strings.SplitN(arg, "=", 2)
		if len(elems) == 2 && setKeys[elems[0]] {
			continue
		}
		if curTarget >= len(targets) {
			overflow = append(overflow, arg)
		} else {
			*(targets[curTarget]) = arg
		}
		curTarget++
	}
	return
}
