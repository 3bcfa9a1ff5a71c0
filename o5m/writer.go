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
	"io"
	"strconv"

	"m4o.io/osm/internal/stringtable"
	"m4o.io/osm/internal/varint"
	"m4o.io/osm/model"
)

// Writer encodes a model.Osm into the o5m binary format. A Writer owns its
// output stream exclusively for the duration of a Write call; its string
// table and delta state are private to this instance.
type Writer struct {
	w     io.Writer
	table *stringtable.Table
	delta deltaState
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		table: stringtable.New(),
	}
}

// Write encodes doc as a complete o5m document: magic, header, optional
// bounding box, nodes, ways, relations, end marker.
func (wr *Writer) Write(doc *model.Osm) error {
	wr.delta.reset()
	wr.table.Clear()

	if err := wr.writeByte(markerReset); err != nil {
		return err
	}

	if err := wr.writeRecord(markerHeader, headerBody); err != nil {
		return err
	}

	if doc.Boundary != nil {
		if err := wr.writeBoundingBox(doc.Boundary); err != nil {
			return err
		}
	}

	for _, id := range doc.NodeIDs() {
		if err := wr.writeNode(doc.Nodes[id]); err != nil {
			return err
		}
	}

	for _, id := range doc.WayIDs() {
		if err := wr.writeWay(doc.Ways[id]); err != nil {
			return err
		}
	}

	for _, id := range doc.RelationIDs() {
		if err := wr.writeRelation(doc.Relations[id]); err != nil {
			return err
		}
	}

	return wr.writeByte(markerEOF)
}

func (wr *Writer) writeByte(b byte) error {
	if _, err := wr.w.Write([]byte{b}); err != nil {
		return model.NewIoError(err)
	}

	return nil
}

// writeRecord emits marker, the unsigned-LEB128 length of body, then body.
func (wr *Writer) writeRecord(marker byte, body []byte) error {
	header := varint.WriteUnsigned([]byte{marker}, uint64(len(body)))

	if _, err := wr.w.Write(header); err != nil {
		return model.NewIoError(err)
	}

	if _, err := wr.w.Write(body); err != nil {
		return model.NewIoError(err)
	}

	return nil
}

func (wr *Writer) writeBoundingBox(b *model.Boundary) error {
	var body []byte

	body = varint.WriteSigned(body, int64(b.MinLon))
	body = varint.WriteSigned(body, int64(b.MinLat))
	body = varint.WriteSigned(body, int64(b.MaxLon))
	body = varint.WriteSigned(body, int64(b.MaxLat))

	return wr.writeRecord(markerBoundingBox, body)
}

func (wr *Writer) writeNode(n model.Node) error {
	var body []byte

	body = varint.WriteSigned(body, varint.DeltaOf(&wr.delta.nodeID, int64(n.ID)))
	body = wr.encodeAuthorBlock(body, n.Meta)

	body = varint.WriteSigned(body, varint.DeltaOf(&wr.delta.nodeLon, int64(n.Coordinate.Lon)))
	body = varint.WriteSigned(body, varint.DeltaOf(&wr.delta.nodeLat, int64(n.Coordinate.Lat)))

	body = wr.encodeTags(body, n.Meta.Tags)

	return wr.writeRecord(markerNode, body)
}

func (wr *Writer) writeWay(way model.Way) error {
	var body []byte

	body = varint.WriteSigned(body, varint.DeltaOf(&wr.delta.wayID, int64(way.ID)))
	body = wr.encodeAuthorBlock(body, way.Meta)

	var refs []byte
	for _, ref := range way.Refs {
		refs = varint.WriteSigned(refs, varint.DeltaOf(&wr.delta.wayRef, int64(ref)))
	}

	body = varint.WriteUnsigned(body, uint64(len(refs)))
	body = append(body, refs...)

	body = wr.encodeTags(body, way.Meta.Tags)

	return wr.writeRecord(markerWay, body)
}

func (wr *Writer) writeRelation(r model.Relation) error {
	var body []byte

	body = varint.WriteSigned(body, varint.DeltaOf(&wr.delta.relationID, int64(r.ID)))
	body = wr.encodeAuthorBlock(body, r.Meta)

	var members []byte
	for _, m := range r.Members {
		members = wr.encodeMember(members, m)
	}

	body = varint.WriteUnsigned(body, uint64(len(members)))
	body = append(body, members...)

	body = wr.encodeTags(body, r.Meta.Tags)

	return wr.writeRecord(markerRelation, body)
}

func (wr *Writer) encodeMember(dst []byte, m model.Member) []byte {
	acc := wr.delta.refAccumulator(m.Type)
	dst = varint.WriteSigned(dst, varint.DeltaOf(acc, int64(m.Ref)))

	return wr.encodeSingle(dst, memberTypeDigit(m.Type)+m.Role)
}

func memberTypeDigit(t model.MemberType) string {
	switch t {
	case model.MemberNode:
		return "0"
	case model.MemberWay:
		return "1"
	default:
		return "2"
	}
}

// encodeAuthorBlock appends the version varint and, when Meta carries a
// version, the timestamp/changeset/user fields that follow it.
func (wr *Writer) encodeAuthorBlock(dst []byte, meta model.Meta) []byte {
	if meta.Version == nil {
		return varint.WriteUnsigned(dst, 0)
	}

	dst = varint.WriteUnsigned(dst, uint64(*meta.Version))

	var author model.AuthorInformation
	if meta.Author != nil {
		author = *meta.Author
	}

	dst = varint.WriteSigned(dst, varint.DeltaOf(&wr.delta.timestamp, author.Created))
	dst = varint.WriteSigned(dst, varint.DeltaOf(&wr.delta.changeset, author.ChangeSet))

	return wr.encodePair(dst, strconv.FormatInt(author.UID, 10), author.User)
}

func (wr *Writer) encodeTags(dst []byte, tags []model.Tag) []byte {
	for _, t := range tags {
		dst = wr.encodePair(dst, t.Key, t.Value)
	}

	return dst
}

// encodePair emits a string-table reference for the (key, value) pair,
// or a 0 reference followed by the literal "key\x00value\x00" bytes when
// the pair is new or ineligible for interning.
func (wr *Writer) encodePair(dst []byte, key, value string) []byte {
	stored := key + "\x00" + value + "\x00"

	if ref := wr.table.Reference(stored); ref > 0 {
		return varint.WriteUnsigned(dst, uint64(ref))
	}

	dst = varint.WriteUnsigned(dst, 0)
	dst = append(dst, key...)
	dst = append(dst, 0)
	dst = append(dst, value...)
	dst = append(dst, 0)

	wr.table.Insert(stored)

	return dst
}

// encodeSingle emits a string-table reference for a single-string slot
// (relation member roles), or the literal bytes with a 0 reference.
func (wr *Writer) encodeSingle(dst []byte, value string) []byte {
	stored := value + "\x00"

	if ref := wr.table.Reference(stored); ref > 0 {
		return varint.WriteUnsigned(dst, uint64(ref))
	}

	dst = varint.WriteUnsigned(dst, 0)
	dst = append(dst, value...)
	dst = append(dst, 0)

	wr.table.Insert(stored)

	return dst
}

