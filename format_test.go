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

package osm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osm/model"
)

func TestFormatFromPath(t *testing.T) {
	test_cases := []struct {
		path string
		want format
	}{
		{"map.osm", formatXML},
		{"map.xml", formatXML},
		{"map.OSM", formatXML},
		{"map.o5m", formatO5M},
		{"map.O5M", formatO5M},
	}

	for _, tc := range test_cases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := formatFromPath(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatFromPath_unsupported(t *testing.T) {
	_, err := formatFromPath("map.pbf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadWrite_roundTrip(t *testing.T) {
	b := NewBuilder()
	b.AddPoint(model.NewCoordinate(66.29, -3.177), tags(tag{"natural", "water"}))
	doc := b.Build()

	for _, ext := range []string{".osm", ".o5m"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "map"+ext)

			require.NoError(t, Write(path, doc))

			got, err := Read(path)
			require.NoError(t, err)
			require.Len(t, got.Nodes, 1)

			for _, id := range got.NodeIDs() {
				assert.Equal(t, doc.Nodes[id].Coordinate, got.Nodes[id].Coordinate)
				assert.Equal(t, doc.Nodes[id].Meta.Tags, got.Nodes[id].Meta.Tags)
			}
		})
	}
}

func TestRead_unsupportedExtension(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "map.pbf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWrite_unsupportedExtension(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "map.pbf"), model.NewOsm())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
