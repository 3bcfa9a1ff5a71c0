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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osm/model"
)

func TestReader_badMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x00})).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBadMagic)
}

func TestReader_emptyStream(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil)).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBadMagic)
}

func TestReader_minimalDocument(t *testing.T) {
	in := []byte{0xff, 0xe0, 0x04, 0x6f, 0x35, 0x6d, 0x32, 0xfe}

	doc, err := NewReader(bytes.NewReader(in)).Read()
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Ways)
	assert.Empty(t, doc.Relations)
	assert.Nil(t, doc.Boundary)
}

func TestReader_missingEOFMarkerStillReturnsDocument(t *testing.T) {
	// A stream that simply runs out (io.EOF) rather than ending with 0xfe is
	// accepted; 0xfe is a courtesy, not a requirement of the framing.
	in := []byte{0xff, 0xe0, 0x04, 0x6f, 0x35, 0x6d, 0x32}

	doc, err := NewReader(bytes.NewReader(in)).Read()
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
}

func TestReader_truncatedRecordBody(t *testing.T) {
	// node marker claims a 5-byte body but only 2 bytes follow.
	in := []byte{0xff, 0x10, 0x05, 0x00, 0x00}

	_, err := NewReader(bytes.NewReader(in)).Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrTruncatedRecord))
}

func TestReader_datasetResetClearsStringTableAndDeltas(t *testing.T) {
	var buf bytes.Buffer

	doc := model.NewOsm()
	doc.AddNode(model.Node{ID: 1, Coordinate: model.NewCoordinate(1, 1), Meta: model.Meta{
		Tags: []model.Tag{{Key: "natural", Value: "water"}},
	}})

	require.NoError(t, NewWriter(&buf).Write(doc))

	// Strip the trailing EOF marker, inject a reset, then a second,
	// independent document written by a fresh Writer: its id and coordinate
	// are deltas from zero, so they decode correctly only if the reset
	// zeroed the reader's delta accumulators.
	raw := buf.Bytes()
	raw = raw[:len(raw)-1] // drop 0xfe
	raw = append(raw, markerReset)

	var second bytes.Buffer

	doc2 := model.NewOsm()
	doc2.AddNode(model.Node{ID: 1, Coordinate: model.NewCoordinate(2, 2), Meta: model.Meta{
		Tags: []model.Tag{{Key: "natural", Value: "water"}},
	}})
	require.NoError(t, NewWriter(&second).Write(doc2))

	raw = append(raw, second.Bytes()...)

	got, err := NewReader(bytes.NewReader(raw)).Read()
	require.NoError(t, err)

	require.Len(t, got.Nodes, 1)
	assert.Equal(t, []model.Tag{{Key: "natural", Value: "water"}}, got.Nodes[1].Meta.Tags)
	assert.Equal(t, model.NewCoordinate(2, 2), got.Nodes[1].Coordinate)

	// A backward reference to a string inserted before a reset must not
	// resolve after it: the second node refers to "a\x00b\x00" by offset 1.
	stale := []byte{markerReset}
	stale = append(stale, markerNode, 0x09, 0x02, 0x00, 0x00, 0x00, 0x00, 'a', 0x00, 'b', 0x00)
	stale = append(stale, markerReset)
	stale = append(stale, markerNode, 0x05, 0x02, 0x00, 0x00, 0x00, 0x01)
	stale = append(stale, markerEOF)

	_, err = NewReader(bytes.NewReader(stale)).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBadStringRef)
}

func TestReader_nodeWithoutCoordinateIsDeletion(t *testing.T) {
	// version=0 (no author), then the body ends: no lon/lat, no tags.
	var body []byte
	body = append(body, 0x02)  // id delta = 1 (zigzag)
	body = append(body, 0x00) // version = 0

	var in []byte
	in = append(in, markerReset)
	in = append(in, markerNode)
	in = append(in, byte(len(body)))
	in = append(in, body...)
	in = append(in, markerEOF)

	doc, err := NewReader(bytes.NewReader(in)).Read()
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, model.Coordinate{}, doc.Nodes[1].Coordinate)
	assert.Empty(t, doc.Nodes[1].Meta.Tags)
}
