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

import "m4o.io/osm/model"

// Coordinater is satisfied by any type convertible to a Coordinate, letting
// callers pass their own geometry types directly to Builder methods.
type Coordinater interface {
	Coordinate() model.Coordinate
}

// Tagger is satisfied by any type convertible to a Tag.
type Tagger interface {
	Tag() model.Tag
}

// Builder assembles an Osm document from points, polylines, and polygons,
// allocating ids from a single shared namespace and performing no
// coordinate deduplication: every coordinate passed in becomes its own
// node.
type Builder struct {
	ids idAllocator
	osm *model.Osm
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{osm: model.NewOsm()}
}

// AddPoint adds a single node and returns its id.
func (b *Builder) AddPoint(coord Coordinater, tags []Tagger) model.ID {
	return b.addNode(coord, tags)
}

// AddPolyline adds a way referencing one new node per coordinate. coords
// must contain at least two entries, or it fails with InvalidGeometry.
func (b *Builder) AddPolyline(coords []Coordinater, tags []Tagger) (model.ID, error) {
	if len(coords) < 2 {
		return 0, ErrInvalidGeometry
	}

	return b.addPolyline(coords, tags), nil
}

// AddPolygon adds a polygon. rings' first entry is the outer ring, the rest
// are inner rings (holes); the builder never auto-closes a ring. A single
// ring is emitted as a bare way carrying the caller's tags, with no
// relation; two or more rings are emitted as one way per ring (untagged)
// plus a multipolygon relation with outer-first member order, carrying the
// caller's tags plus the synthetic tag type=multipolygon.
func (b *Builder) AddPolygon(rings [][]Coordinater, tags []Tagger) (model.ID, error) {
	if len(rings) == 0 {
		return 0, ErrInvalidGeometry
	}

	if len(rings) == 1 {
		return b.addPolyline(rings[0], tags), nil
	}

	return b.addMultipolygon(rings, tags)
}

// Build returns the assembled Osm, ending this Builder's session.
func (b *Builder) Build() *model.Osm {
	return b.osm
}

func (b *Builder) addNode(coord Coordinater, tags []Tagger) model.ID {
	id := b.ids.alloc()

	b.osm.AddNode(model.Node{
		ID:         id,
		Coordinate: coord.Coordinate(),
		Meta:       model.Meta{Tags: toTags(tags)},
	})

	return id
}

func (b *Builder) addPolyline(coords []Coordinater, tags []Tagger) model.ID {
	refs := make([]model.ID, len(coords))
	for i, c := range coords {
		refs[i] = b.addNode(c, nil)
	}

	id := b.ids.alloc()

	b.osm.AddWay(model.Way{ID: id, Refs: refs, Meta: model.Meta{Tags: toTags(tags)}})

	return id
}

// addMultipolygon emits one way per ring (outer first, then each inner
// ring in order) and a relation whose members list the outer way before
// the inner ways, carrying the caller's tags plus type=multipolygon.
func (b *Builder) addMultipolygon(rings [][]Coordinater, tags []Tagger) (model.ID, error) {
	outerID := b.addPolyline(rings[0], nil)

	innerIDs := make([]model.ID, 0, len(rings)-1)
	for _, ring := range rings[1:] {
		innerIDs = append(innerIDs, b.addPolyline(ring, nil))
	}

	members := make([]model.Member, 0, len(innerIDs)+1)
	members = append(members, model.Member{Type: model.MemberWay, Ref: outerID, Role: "outer"})

	for _, id := range innerIDs {
		members = append(members, model.Member{Type: model.MemberWay, Ref: id, Role: "inner"})
	}

	relTags := append(toTags(tags), model.Tag{Key: "type", Value: "multipolygon"})

	id := b.ids.alloc()
	b.osm.AddRelation(model.Relation{ID: id, Members: members, Meta: model.Meta{Tags: relTags}})

	return id, nil
}

func toTags(tags []Tagger) []model.Tag {
	if len(tags) == 0 {
		return nil
	}

	out := make([]model.Tag, len(tags))
	for i, t := range tags {
		out[i] = t.Tag()
	}

	return out
}
