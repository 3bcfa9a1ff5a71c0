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
	"encoding/json"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osm"
	"m4o.io/osm/model"
)

func nanoToDegrees(nano int32) float64 {
	return float64(nano) / model.NanoDegree
}

func init() {
	RootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("json", "j", false, "format information as JSON")
}

type summary struct {
	Generator     string  `json:"generator"`
	BoundingBox   *bounds `json:"boundingBox,omitempty"`
	NodeCount     int     `json:"nodeCount"`
	WayCount      int     `json:"wayCount"`
	RelationCount int     `json:"relationCount"`
}

type bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

var infoCmd = &cobra.Command{
	Use:   "info <map file>",
	Short: "Print a summary of an OSM map file",
	Long:  "Print the generator, bounding box, and entity counts of an OSM map file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := osm.Read(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		s := summary{
			Generator:     doc.Generator(),
			NodeCount:     len(doc.Nodes),
			WayCount:      len(doc.Ways),
			RelationCount: len(doc.Relations),
		}

		if doc.Boundary != nil {
			s.BoundingBox = &bounds{
				MinLat: nanoToDegrees(doc.Boundary.MinLat),
				MinLon: nanoToDegrees(doc.Boundary.MinLon),
				MaxLat: nanoToDegrees(doc.Boundary.MaxLat),
				MaxLon: nanoToDegrees(doc.Boundary.MaxLon),
			}
		}

		jsonfmt, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}

		if jsonfmt {
			b, err := json.Marshal(s)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		}

		renderInfoText(cmd, s)

		return nil
	},
}

func renderInfoText(cmd *cobra.Command, s summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Generator: %s\n", s.Generator)

	if s.BoundingBox != nil {
		fmt.Fprintf(out, "BoundingBox: (%g, %g) (%g, %g)\n",
			s.BoundingBox.MinLat, s.BoundingBox.MinLon, s.BoundingBox.MaxLat, s.BoundingBox.MaxLon)
	}

	fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(int64(s.NodeCount)))
	fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(int64(s.WayCount)))
	fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(int64(s.RelationCount)))
}
