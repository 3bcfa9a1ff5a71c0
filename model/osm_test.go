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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOsm_AddNode_expandsBoundary(t *testing.T) {
	o := NewOsm()

	o.AddNode(Node{ID: 1, Coordinate: Coordinate{Lat: 10, Lon: 20}})
	o.AddNode(Node{ID: 2, Coordinate: Coordinate{Lat: -5, Lon: 30}})

	assert.Len(t, o.Nodes, 2)
	assert.Equal(t, &Boundary{MinLat: -5, MinLon: 20, MaxLat: 10, MaxLon: 30}, o.Boundary)
}

func TestOsm_AddNode_lastWriteWins(t *testing.T) {
	o := NewOsm()

	o.AddNode(Node{ID: 1, Coordinate: Coordinate{Lat: 10, Lon: 20}})
	o.AddNode(Node{ID: 1, Coordinate: Coordinate{Lat: 11, Lon: 21}})

	assert.Len(t, o.Nodes, 1)
	assert.Equal(t, Coordinate{Lat: 11, Lon: 21}, o.Nodes[1].Coordinate)
}

func TestOsm_Generator(t *testing.T) {
	o := NewOsm()
	assert.Equal(t, DefaultGenerator, o.Generator())

	o.Header = &Header{Generator: "custom"}
	assert.Equal(t, "custom", o.Generator())
}

func TestOsm_IDAccessors_sortedAscending(t *testing.T) {
	o := NewOsm()
	o.AddNode(Node{ID: 5})
	o.AddNode(Node{ID: 1})
	o.AddNode(Node{ID: 3})
	o.AddWay(Way{ID: 20})
	o.AddWay(Way{ID: 10})
	o.AddRelation(Relation{ID: 200})
	o.AddRelation(Relation{ID: 100})

	assert.Equal(t, []ID{1, 3, 5}, o.NodeIDs())
	assert.Equal(t, []ID{10, 20}, o.WayIDs())
	assert.Equal(t, []ID{100, 200}, o.RelationIDs())
}
