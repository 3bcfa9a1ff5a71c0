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
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"m4o.io/osm/model"
)

// Writer encodes a model.Osm as OSM XML: a deterministic, hand-written
// serializer rather than encoding/xml.Marshal, so that attribute order,
// child order, and indentation match the format's canonical shape exactly.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes doc as a complete OSM XML document.
func (wr *Writer) Write(doc *model.Osm) error {
	wr.err = nil

	wr.writeString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	wr.writeString(fmt.Sprintf("<osm version=%s generator=%s>\n", quoteAttr(osmVersion), quoteAttr(doc.Generator())))

	if doc.Boundary != nil {
		wr.writeBounds(doc.Boundary)
	}

	for _, id := range doc.NodeIDs() {
		wr.writeNode(doc.Nodes[id])
	}

	for _, id := range doc.WayIDs() {
		wr.writeWay(doc.Ways[id])
	}

	for _, id := range doc.RelationIDs() {
		wr.writeRelation(doc.Relations[id])
	}

	wr.writeString("</osm>\n")

	return wr.err
}

func (wr *Writer) writeString(s string) {
	if wr.err != nil {
		return
	}

	_, wr.err = io.WriteString(wr.w, s)
	if wr.err != nil {
		wr.err = model.NewIoError(wr.err)
	}
}

func (wr *Writer) writeBounds(b *model.Boundary) {
	wr.writeString(fmt.Sprintf(
		"  <bounds minlat=%s minlon=%s maxlat=%s maxlon=%s/>\n",
		quoteAttr(degrees(b.MinLat)), quoteAttr(degrees(b.MinLon)), quoteAttr(degrees(b.MaxLat)), quoteAttr(degrees(b.MaxLon)),
	))
}

func (wr *Writer) writeNode(n model.Node) {
	coord := n.Coordinate

	attrs := fmt.Sprintf("id=%s lat=%s lon=%s",
		quoteAttr(strconv.FormatInt(int64(n.ID), 10)), quoteAttr(degrees(coord.Lat)), quoteAttr(degrees(coord.Lon)))
	attrs += wr.metaAttrs(n.Meta)

	if len(n.Meta.Tags) == 0 {
		wr.writeString(fmt.Sprintf("  <node %s/>\n", attrs))

		return
	}

	wr.writeString(fmt.Sprintf("  <node %s>\n", attrs))
	wr.writeTags(n.Meta.Tags, "    ")
	wr.writeString("  </node>\n")
}

func (wr *Writer) writeWay(way model.Way) {
	attrs := fmt.Sprintf("id=%s", quoteAttr(strconv.FormatInt(int64(way.ID), 10)))
	attrs += wr.metaAttrs(way.Meta)

	if len(way.Refs) == 0 && len(way.Meta.Tags) == 0 {
		wr.writeString(fmt.Sprintf("  <way %s/>\n", attrs))

		return
	}

	wr.writeString(fmt.Sprintf("  <way %s>\n", attrs))

	for _, ref := range way.Refs {
		wr.writeString(fmt.Sprintf("    <nd ref=%s/>\n", quoteAttr(strconv.FormatInt(int64(ref), 10))))
	}

	wr.writeTags(way.Meta.Tags, "    ")
	wr.writeString("  </way>\n")
}

func (wr *Writer) writeRelation(r model.Relation) {
	attrs := fmt.Sprintf("id=%s", quoteAttr(strconv.FormatInt(int64(r.ID), 10)))
	attrs += wr.metaAttrs(r.Meta)

	if len(r.Members) == 0 && len(r.Meta.Tags) == 0 {
		wr.writeString(fmt.Sprintf("  <relation %s/>\n", attrs))

		return
	}

	wr.writeString(fmt.Sprintf("  <relation %s>\n", attrs))

	for _, m := range r.Members {
		wr.writeString(fmt.Sprintf(
			"    <member type=%s ref=%s role=%s/>\n",
			quoteAttr(memberTypeName(m.Type)), quoteAttr(strconv.FormatInt(int64(m.Ref), 10)), quoteAttr(m.Role),
		))
	}

	wr.writeTags(r.Meta.Tags, "    ")
	wr.writeString("  </relation>\n")
}

func (wr *Writer) writeTags(tags []model.Tag, indent string) {
	for _, t := range tags {
		wr.writeString(fmt.Sprintf("%s<tag k=%s v=%s/>\n", indent, quoteAttr(t.Key), quoteAttr(t.Value)))
	}
}

// metaAttrs renders version, timestamp, changeset, uid, user in that order
// per the format's attribute contract; each is omitted when unknown.
func (wr *Writer) metaAttrs(meta model.Meta) string {
	var b strings.Builder

	if meta.Version != nil {
		fmt.Fprintf(&b, " version=%s", quoteAttr(strconv.FormatInt(*meta.Version, 10)))
	}

	if meta.Author != nil {
		a := meta.Author

		fmt.Fprintf(&b, " timestamp=%s changeset=%s uid=%s user=%s",
			quoteAttr(time.Unix(a.Created, 0).UTC().Format(time.RFC3339)),
			quoteAttr(strconv.FormatInt(a.ChangeSet, 10)),
			quoteAttr(strconv.FormatInt(a.UID, 10)),
			quoteAttr(a.User))
	}

	return b.String()
}

func memberTypeName(t model.MemberType) string {
	switch t {
	case model.MemberNode:
		return "node"
	case model.MemberWay:
		return "way"
	default:
		return "relation"
	}
}

// degrees renders a nano-degree fixed-point value as a floating-point
// degree string with trailing zeros trimmed.
func degrees(nano int32) string {
	return strconv.FormatFloat(float64(nano)/model.NanoDegree, 'f', -1, 64)
}

var escaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

// quoteAttr renders s as a double-quoted XML attribute value with & < > " '
// escaped.
func quoteAttr(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

