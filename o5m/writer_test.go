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

package o5m

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osm/model"
)

func TestWriter_minimalDocument(t *testing.T) {
	doc := model.NewOsm()

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(doc))

	want := []byte{0xff, 0xe0, 0x04, 0x6f, 0x35, 0x6d, 0x32, 0xfe}
	assert.Equal(t, want, buf.Bytes())
}

func TestWriter_ReadWriter_roundTripNode(t *testing.T) {
	version := int64(3)

	doc := model.NewOsm()
	doc.AddNode(model.Node{
		ID:         42,
		Coordinate: model.NewCoordinate(51.5074, -0.1278),
		Meta: model.Meta{
			Tags:    []model.Tag{{Key: "natural", Value: "water"}},
			Version: &version,
			Author: &model.AuthorInformation{
				Created:   1000,
				ChangeSet: 7,
				UID:       99,
				User:      "alice",
			},
		},
	})

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(doc))

	got, err := NewReader(&buf).Read()
	require.NoError(t, err)

	require.Len(t, got.Nodes, 1)
	node := got.Nodes[42]
	assert.Equal(t, doc.Nodes[42].Coordinate, node.Coordinate)
	assert.Equal(t, doc.Nodes[42].Meta.Tags, node.Meta.Tags)
	require.NotNil(t, node.Meta.Version)
	assert.EqualValues(t, 3, *node.Meta.Version)
	require.NotNil(t, node.Meta.Author)
	assert.Equal(t, *doc.Nodes[42].Meta.Author, *node.Meta.Author)
}

func TestWriter_ReadWriter_roundTripWayAndRelation(t *testing.T) {
	doc := model.NewOsm()
	doc.AddNode(model.Node{ID: 1, Coordinate: model.NewCoordinate(1, 1)})
	doc.AddNode(model.Node{ID: 2, Coordinate: model.NewCoordinate(2, 2)})
	doc.AddWay(model.Way{ID: 10, Refs: []model.ID{1, 2}})
	doc.AddRelation(model.Relation{
		ID: 100,
		Members: []model.Member{
			{Type: model.MemberWay, Ref: 10, Role: "outer"},
			{Type: model.MemberNode, Ref: 1, Role: ""},
		},
		Meta: model.Meta{Tags: []model.Tag{{Key: "type", Value: "multipolygon"}}},
	})

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(doc))

	got, err := NewReader(&buf).Read()
	require.NoError(t, err)

	require.Len(t, got.Ways, 1)
	assert.Equal(t, []model.ID{1, 2}, got.Ways[10].Refs)

	require.Len(t, got.Relations, 1)
	assert.Equal(t, doc.Relations[100].Members, got.Relations[100].Members)
	assert.Equal(t, doc.Relations[100].Meta.Tags, got.Relations[100].Meta.Tags)
}

func TestWriter_ReadWriter_roundTripBoundary(t *testing.T) {
	doc := model.NewOsm()
	doc.Boundary = &model.Boundary{MinLat: -100, MinLon: -200, MaxLat: 100, MaxLon: 200}

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(doc))

	got, err := NewReader(&buf).Read()
	require.NoError(t, err)

	require.NotNil(t, got.Boundary)
	assert.Equal(t, *doc.Boundary, *got.Boundary)
}

func TestWriter_repeatedTagsInternNoDuplicates(t *testing.T) {
	doc := model.NewOsm()
	for id := int64(1); id <= 5; id++ {
		doc.AddNode(model.Node{
			ID:         model.ID(id),
			Coordinate: model.NewCoordinate(float64(id), float64(id)),
			Meta:       model.Meta{Tags: []model.Tag{{Key: "natural", Value: "water"}}},
		})
	}

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).Write(doc))

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("natural\x00water\x00")))

	got, err := NewReader(&buf).Read()
	require.NoError(t, err)

	require.Len(t, got.Nodes, 5)
	for _, n := range got.Nodes {
		assert.Equal(t, []model.Tag{{Key: "natural", Value: "water"}}, n.Meta.Tags)
	}
}
