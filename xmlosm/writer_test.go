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

package xmlosm

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

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<osm version=\"0.6\" generator=\"m4o.io/osm\">\n" +
		"</osm>\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_nodeWithTagsAndAuthor(t *testing.T) {
	version := int64(1)

	doc := model.NewOsm()
	doc.AddNode(model.Node{
		ID:         1,
		Coordinate: model.NewCoordinate(66.29, -3.177),
		Meta: model.Meta{
			Tags:    []model.Tag{{Key: "natural", Value: "water"}},
			Version: &version,
			Author: &model.AuthorInformation{
				Created:   1169984426,
				ChangeSet: 203496,
				UID:       1238,
				User:      "80n",
			},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(doc))

	assert.Contains(t, buf.String(), `<node id="1" lat="66.29" lon="-3.177" version="1" `+
		`timestamp="2007-01-28T11:40:26Z" changeset="203496" uid="1238" user="80n">`)
	assert.Contains(t, buf.String(), `<tag k="natural" v="water"/>`)
	assert.Contains(t, buf.String(), "</node>")
}

func TestWriter_escapesAttributeValues(t *testing.T) {
	doc := model.NewOsm()
	doc.AddNode(model.Node{
		ID:         1,
		Coordinate: model.NewCoordinate(1, 1),
		Meta:       model.Meta{Tags: []model.Tag{{Key: "name", Value: `<A & "B">`}}},
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(doc))

	assert.Contains(t, buf.String(), `v="&lt;A &amp; &quot;B&quot;&gt;"`)
}

func TestWriter_wayAndRelationChildOrder(t *testing.T) {
	doc := model.NewOsm()
	doc.AddWay(model.Way{
		ID:   10,
		Refs: []model.ID{1, 2},
		Meta: model.Meta{Tags: []model.Tag{{Key: "highway", Value: "residential"}}},
	})
	doc.AddRelation(model.Relation{
		ID: 100,
		Members: []model.Member{
			{Type: model.MemberWay, Ref: 10, Role: "outer"},
		},
		Meta: model.Meta{Tags: []model.Tag{{Key: "type", Value: "multipolygon"}}},
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(doc))

	out := buf.String()
	assert.Contains(t, out, `<nd ref="1"/>`)
	assert.Contains(t, out, `<nd ref="2"/>`)
	assert.Contains(t, out, `<member type="way" ref="10" role="outer"/>`)

	ndIdx := indexOf(out, `<nd ref="1"/>`)
	tagIdx := indexOf(out, `<tag k="highway"`)
	require.True(t, ndIdx >= 0 && tagIdx >= 0)
	assert.Less(t, ndIdx, tagIdx, "nd children must precede tag children")

	memberIdx := indexOf(out, `<member type="way"`)
	relTagIdx := indexOf(out, `<tag k="type"`)
	require.True(t, memberIdx >= 0 && relTagIdx >= 0)
	assert.Less(t, memberIdx, relTagIdx, "member children must precede tag children")
}

func TestWriter_boundsOmittedWhenNil(t *testing.T) {
	doc := model.NewOsm()

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(doc))

	assert.NotContains(t, buf.String(), "bounds")
}

func TestWriter_boundsWritten(t *testing.T) {
	doc := model.NewOsm()
	doc.Boundary = &model.Boundary{MinLat: 582400000, MinLon: 151600000, MaxLat: 621800000, MaxLon: 173400000}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(doc))

	assert.Contains(t, buf.String(), `<bounds minlat="58.24" minlon="15.16" maxlat="62.18" maxlon="17.34"/>`)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}

	return -1
}
