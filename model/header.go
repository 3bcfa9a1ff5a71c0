// Copyright 2017-25 the original author or authors.
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

package model

import "sort"

// Header is the file-level metadata of an Osm document: a generator string
// and a bounding box. The XML writer emits Generator (see Osm.Generator);
// neither writer reads Header.Boundary, both emit Osm.Boundary instead. A
// nil Header means "use defaults" — see Osm.
type Header struct {
	Generator string    `json:"generator,omitempty"`
	Boundary  *Boundary `json:"boundary,omitempty"`
}

// DefaultGenerator is the generator string written when an Osm has no
// explicit Header.
const DefaultGenerator = "m4o.io/osm"

// Osm is a container of nodes, ways, and relations keyed by id, with an
// optional bounding box. Last write wins on duplicate id within a map.
type Osm struct {
	Nodes     map[ID]Node
	Ways      map[ID]Way
	Relations map[ID]Relation
	Boundary  *Boundary
	Header    *Header
}

// NewOsm returns an empty, ready-to-populate Osm container.
func NewOsm() *Osm {
	return &Osm{
		Nodes:     make(map[ID]Node),
		Ways:      make(map[ID]Way),
		Relations: make(map[ID]Relation),
	}
}

// AddNode inserts or overwrites a node and expands the bounding box.
func (o *Osm) AddNode(n Node) {
	o.Nodes[n.ID] = n

	if o.Boundary == nil {
		o.Boundary = InitialBoundary()
	}

	o.Boundary.Expand(n.Coordinate)
}

// AddWay inserts or overwrites a way.
func (o *Osm) AddWay(w Way) {
	o.Ways[w.ID] = w
}

// AddRelation inserts or overwrites a relation.
func (o *Osm) AddRelation(r Relation) {
	o.Relations[r.ID] = r
}

// Generator returns the Header's generator string, or DefaultGenerator if
// the Osm has no Header.
func (o *Osm) Generator() string {
	if o.Header == nil || o.Header.Generator == "" {
		return DefaultGenerator
	}

	return o.Header.Generator
}

// NodeIDs returns the ids of every node in ascending order, giving writers
// a deterministic iteration order over the underlying map.
func (o *Osm) NodeIDs() []ID {
	ids := make([]ID, 0, len(o.Nodes))
	for id := range o.Nodes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// WayIDs returns the ids of every way in ascending order.
func (o *Osm) WayIDs() []ID {
	ids := make([]ID, 0, len(o.Ways))
	for id := range o.Ways {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// RelationIDs returns the ids of every relation in ascending order.
func (o *Osm) RelationIDs() []ID {
	ids := make([]ID, 0, len(o.Relations))
	for id := range o.Relations {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
