// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/destel/rill"
	"github.com/spf13/cobra"

	"m4o.io/osm"
	"m4o.io/osm/model"
	"m4o.io/osm/o5m"
	"m4o.io/osm/xmlosm"
)

var toExt string

func init() {
	RootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringP("glob", "g", "", "convert every file matching this glob pattern instead of a single input")
	flags.VarP(newExtValue("", &toExt), "to", "t", "target extension for --glob mode (osm, xml, or o5m)")
	flags.Uint16P("workers", "w", uint16(runtime.GOMAXPROCS(-1)), "number of files to convert concurrently in --glob mode")
}

var convertCmd = &cobra.Command{
	Use:   "convert [<input file> <output file>]",
	Short: "Convert a map file between the XML and o5m formats",
	Long: "Convert a map file between the XML and o5m formats, inferring the codec on each " +
		"side from its file extension. With --glob, converts every matching file concurrently, " +
		"writing each alongside the original with the --to extension.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		glob, err := flags.GetString("glob")
		if err != nil {
			return err
		}

		if glob != "" {
			return runGlobConvert(cmd, glob)
		}

		if len(args) != 2 {
			return fmt.Errorf("convert requires exactly 2 arguments (input, output) unless --glob is set")
		}

		return convertWithProgress(args[0], args[1])
	},
}

// convertWithProgress reads in with a stderr progress bar sized to the
// file's length, then writes the result to out. Used for the single-file
// form of convert; --glob mode converts many files at once and uses
// convertOne instead, where one bar per file would just be noise.
func convertWithProgress(in, out string) error {
	doc, err := readWithProgress(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	if err := osm.Write(out, doc); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	return nil
}

func readWithProgress(path string) (*model.Osm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := wrapInputFile(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".osm", ".xml":
		return xmlosm.NewReader(r).Read()
	case ".o5m":
		return o5m.NewReader(r).Read()
	default:
		return nil, model.NewUnsupportedFormatError(filepath.Ext(path))
	}
}

func convertOne(in, out string) error {
	doc, err := osm.Read(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	if err := osm.Write(out, doc); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	return nil
}

func runGlobConvert(cmd *cobra.Command, pattern string) error {
	if toExt == "" {
		return fmt.Errorf("--to is required with --glob")
	}

	flags := cmd.Flags()

	workers, err := flags.GetUint16("workers")
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("bad --glob pattern %q: %w", pattern, err)
	}

	in := rill.FromSlice(matches, nil)

	return rill.ForEach(in, int(workers), func(path string) error {
		ext := filepath.Ext(path)
		out := strings.TrimSuffix(path, ext) + toExt

		if err := convertOne(path, out); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, out)

		return nil
	})
}
