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

// Package o5m implements the o5m binary encoding of OpenStreetMap map data:
// a record-framed format built on unsigned/zig-zag LEB128 varints, delta
// coded ids/coordinates/timestamps, and a bounded backward-referenced
// string interning table.
package o5m

import "m4o.io/osm/model"

// Marker bytes that begin every o5m record.
const (
	markerReset       = 0xff // file start magic, and dataset reset thereafter
	markerEOF         = 0xfe
	markerNode        = 0x10
	markerWay         = 0x11
	markerRelation    = 0x12
	markerBoundingBox = 0xdb
	markerTimestamp   = 0xdc
	markerHeader      = 0xe0
)

// headerBody is the fixed "o5m2" payload of the 0xe0 header record.
var headerBody = []byte{0x6f, 0x35, 0x6d, 0x32} // "o5m2"

// deltaState bundles every signed delta accumulator the o5m format
// maintains, all zeroed at file start and reset at every 0xff marker. Kept
// as a flat record belonging to one codec instance, never a package-level
// global, per the "Delta accumulators as state bag" design note.
type deltaState struct {
	nodeID  int64
	nodeLat int64
	nodeLon int64

	wayID  int64
	wayRef int64

	relationID     int64
	relRefNode     int64
	relRefWay      int64
	relRefRelation int64

	changeset int64
	timestamp int64
}

// reset zeroes every accumulator, as required at file start and at every
// 0xff dataset reset marker.
func (d *deltaState) reset() {
	*d = deltaState{}
}

// refAccumulator returns the pointer to the per-kind relation member
// reference accumulator selected by t.
func (d *deltaState) refAccumulator(t model.MemberType) *int64 {
	switch t {
	case model.MemberNode:
		return &d.relRefNode
	case model.MemberWay:
		return &d.relRefWay
	default:
		return &d.relRefRelation
	}
}
