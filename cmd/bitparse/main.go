// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Command bitparse decodes and encodes bit-field payloads described by a
// YAML layout file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MultiTechSystems/bit-parser/bitfield"
)

type options struct {
	layout  string
	decode  string
	encode  string
	values  string
	full    bool
	schema  bool
	jsonOut bool
}

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so that deferred calls run before exiting.
func realMain() int {
	var (
		layoutFile = flag.String("layout", "", "Path to layout file (YAML or JSON)")
		decodeHex  = flag.String("decode", "", "Hex payload to decode")
		encodeList = flag.String("encode", "", "Labels to enable (comma-separated, name:byte:bit allowed)")
		valueList  = flag.String("values", "", "Group values (NAME=N,NAME2=N)")
		full       = flag.Bool("full", false, "Show every bit of the decoded payload")
		schema     = flag.Bool("schema", false, "Print the layout schema and exit")
		jsonOut    = flag.Bool("json", false, "Write JSON instead of a table")
		verbose    = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *layoutFile == "" || (*decodeHex == "" && *encodeList == "" && *valueList == "" && !*schema) {
		fmt.Fprintln(os.Stderr, "Usage: bitparse -layout <file.yaml> -decode <hex> [-full] [-json]")
		fmt.Fprintln(os.Stderr, "       bitparse -layout <file.yaml> -encode <label,...> [-values name=N,...]")
		fmt.Fprintln(os.Stderr, "       bitparse -layout <file.yaml> -schema")
		return 1
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer logger.Sync()
		bitfield.SetLogger(logger)
	}

	opts := options{
		layout:  *layoutFile,
		decode:  *decodeHex,
		encode:  *encodeList,
		values:  *valueList,
		full:    *full,
		schema:  *schema,
		jsonOut: *jsonOut,
	}
	if err := run(os.Stdout, opts); err != nil {
		bitfield.Logger().Debug("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(w io.Writer, opts options) error {
	l, err := bitfield.LoadLayout(opts.layout)
	if err != nil {
		return err
	}

	switch {
	case opts.schema:
		return writeJSON(w, l.Describe())

	case opts.decode != "":
		if opts.full {
			entries, err := l.DecodeFullHex(opts.decode)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			if opts.jsonOut {
				return writeJSON(w, entries)
			}
			renderEntries(w, l, entries)
			return nil
		}
		labels, err := l.DecodeHex(opts.decode)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if opts.jsonOut {
			return writeJSON(w, labels)
		}
		renderLabels(w, l, labels)
		return nil

	default:
		values, err := parseValues(opts.values)
		if err != nil {
			return err
		}
		hex, err := l.EncodeHex(parseList(opts.encode), values)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fmt.Fprintln(w, hex)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseList splits a comma-separated list, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseValues parses "name=N,name2=N". The last '=' splits name from value
// so that names may contain '='.
func parseValues(s string) (map[string]int, error) {
	values := make(map[string]int)
	for _, item := range parseList(s) {
		i := strings.LastIndexByte(item, '=')
		if i <= 0 {
			return nil, fmt.Errorf("value %q: want NAME=N", item)
		}
		name := strings.TrimSpace(item[:i])
		v, err := strconv.ParseInt(strings.TrimSpace(item[i+1:]), 0, 0)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", item, err)
		}
		values[name] = int(v)
	}
	return values, nil
}
