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
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"m4o.io/osm/model"
)

// Reader decodes an OSM XML document into a model.Osm, via encoding/xml's
// streaming tokenizer. The whole document is buffered so that a tokenizer
// error's byte offset can be translated back into a line/column pair.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader that decodes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read decodes one full OSM XML document from the stream.
func (rd *Reader) Read() (*model.Osm, error) {
	data, err := io.ReadAll(rd.r)
	if err != nil {
		return nil, model.NewIoError(err)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := model.NewOsm()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return doc, nil
		} else if err != nil {
			return nil, syntaxErr(data, dec, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "bounds":
			boundary, err := parseBounds(start)
			if err != nil {
				return nil, err
			}

			doc.Boundary = boundary

			if err := skipTo(dec, data, "bounds"); err != nil {
				return nil, err
			}

		case "node":
			node, err := rd.parseNode(dec, data, start)
			if err != nil {
				return nil, err
			}

			doc.AddNode(node)

		case "way":
			way, err := rd.parseWay(dec, data, start)
			if err != nil {
				return nil, err
			}

			doc.AddWay(way)

		case "relation":
			relation, err := rd.parseRelation(dec, data, start)
			if err != nil {
				return nil, err
			}

			doc.AddRelation(relation)
		}
	}
}

func (rd *Reader) parseNode(dec *xml.Decoder, data []byte, start xml.StartElement) (model.Node, error) {
	attrs := attrMap(start.Attr)

	id, err := requireInt(attrs, "id")
	if err != nil {
		return model.Node{}, err
	}

	lat, err := requireFloat(attrs, "lat")
	if err != nil {
		return model.Node{}, err
	}

	lon, err := requireFloat(attrs, "lon")
	if err != nil {
		return model.Node{}, err
	}

	meta, err := parseMeta(attrs)
	if err != nil {
		return model.Node{}, err
	}

	children, err := readChildren(dec, data, "node")
	if err != nil {
		return model.Node{}, err
	}

	tags, err := collectTags(children)
	if err != nil {
		return model.Node{}, err
	}

	meta.Tags = tags

	return model.Node{ID: model.ID(id), Coordinate: model.NewCoordinate(lat, lon), Meta: meta}, nil
}

func (rd *Reader) parseWay(dec *xml.Decoder, data []byte, start xml.StartElement) (model.Way, error) {
	attrs := attrMap(start.Attr)

	id, err := requireInt(attrs, "id")
	if err != nil {
		return model.Way{}, err
	}

	meta, err := parseMeta(attrs)
	if err != nil {
		return model.Way{}, err
	}

	children, err := readChildren(dec, data, "way")
	if err != nil {
		return model.Way{}, err
	}

	refs, err := collectRefs(children)
	if err != nil {
		return model.Way{}, err
	}

	tags, err := collectTags(children)
	if err != nil {
		return model.Way{}, err
	}

	meta.Tags = tags

	return model.Way{ID: model.ID(id), Refs: refs, Meta: meta}, nil
}

func (rd *Reader) parseRelation(dec *xml.Decoder, data []byte, start xml.StartElement) (model.Relation, error) {
	attrs := attrMap(start.Attr)

	id, err := requireInt(attrs, "id")
	if err != nil {
		return model.Relation{}, err
	}

	meta, err := parseMeta(attrs)
	if err != nil {
		return model.Relation{}, err
	}

	children, err := readChildren(dec, data, "relation")
	if err != nil {
		return model.Relation{}, err
	}

	members, err := collectMembers(children)
	if err != nil {
		return model.Relation{}, err
	}

	tags, err := collectTags(children)
	if err != nil {
		return model.Relation{}, err
	}

	meta.Tags = tags

	return model.Relation{ID: model.ID(id), Members: members, Meta: meta}, nil
}

// readChildren collects every start-tag child of the current element
// (skipping past each one's own subtree) until the matching end-tag for
// parent is seen. Matches the reference reader's "only empty elements are
// expected in element contents" contract: OSM XML never nests non-empty
// elements inside node/way/relation, so Skip never has real work to do.
func readChildren(dec *xml.Decoder, data []byte, parent string) ([]xml.StartElement, error) {
	var children []xml.StartElement

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxErr(data, dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			children = append(children, t.Copy())

			if err := dec.Skip(); err != nil {
				return nil, syntaxErr(data, dec, err)
			}

		case xml.EndElement:
			if t.Name.Local == parent {
				return children, nil
			}
		}
	}
}

// skipTo consumes tokens until the end-tag of name, for elements (like
// <bounds/>) read via a plain StartElement token rather than readChildren.
func skipTo(dec *xml.Decoder, data []byte, name string) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return syntaxErr(data, dec, err)
		}

		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == name {
			return nil
		}
	}
}

func parseBounds(start xml.StartElement) (*model.Boundary, error) {
	attrs := attrMap(start.Attr)

	minLat, err := requireFloat(attrs, "minlat")
	if err != nil {
		return nil, err
	}

	minLon, err := requireFloat(attrs, "minlon")
	if err != nil {
		return nil, err
	}

	maxLat, err := requireFloat(attrs, "maxlat")
	if err != nil {
		return nil, err
	}

	maxLon, err := requireFloat(attrs, "maxlon")
	if err != nil {
		return nil, err
	}

	min := model.NewCoordinate(minLat, minLon)
	max := model.NewCoordinate(maxLat, maxLon)

	return &model.Boundary{MinLat: min.Lat, MinLon: min.Lon, MaxLat: max.Lat, MaxLon: max.Lon}, nil
}

func collectTags(children []xml.StartElement) ([]model.Tag, error) {
	var tags []model.Tag

	for _, c := range children {
		if c.Name.Local != "tag" {
			continue
		}

		attrs := attrMap(c.Attr)

		key, err := requireString(attrs, "k")
		if err != nil {
			return nil, err
		}

		value, err := requireString(attrs, "v")
		if err != nil {
			return nil, err
		}

		tags = append(tags, model.Tag{Key: key, Value: value})
	}

	return tags, nil
}

func collectRefs(children []xml.StartElement) ([]model.ID, error) {
	var refs []model.ID

	for _, c := range children {
		if c.Name.Local != "nd" {
			continue
		}

		attrs := attrMap(c.Attr)

		ref, err := requireInt(attrs, "ref")
		if err != nil {
			return nil, err
		}

		refs = append(refs, model.ID(ref))
	}

	return refs, nil
}

func collectMembers(children []xml.StartElement) ([]model.Member, error) {
	var members []model.Member

	for _, c := range children {
		if c.Name.Local != "member" {
			continue
		}

		attrs := attrMap(c.Attr)

		typ, err := requireString(attrs, "type")
		if err != nil {
			return nil, err
		}

		ref, err := requireInt(attrs, "ref")
		if err != nil {
			return nil, err
		}

		var kind model.MemberType

		switch typ {
		case "node":
			kind = model.MemberNode
		case "way":
			kind = model.MemberWay
		case "relation":
			kind = model.MemberRelation
		default:
			return nil, model.NewBadAttributeValueError("type", typ)
		}

		members = append(members, model.Member{Type: kind, Ref: model.ID(ref), Role: attrs["role"]})
	}

	return members, nil
}

// parseMeta reads the optional version attribute and, only when every one
// of timestamp/uid/user/changeset is present, the author block.
func parseMeta(attrs map[string]string) (model.Meta, error) {
	var meta model.Meta

	if v, ok := attrs["version"]; ok {
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return meta, model.NewBadAttributeValueError("version", v)
		}

		meta.Version = &version
	}

	const (
		tsKey  = "timestamp"
		uidKey = "uid"
		usrKey = "user"
		csKey  = "changeset"
	)

	if _, ok := attrs[tsKey]; !ok {
		return meta, nil
	}

	if _, ok := attrs[uidKey]; !ok {
		return meta, nil
	}

	if _, ok := attrs[usrKey]; !ok {
		return meta, nil
	}

	if _, ok := attrs[csKey]; !ok {
		return meta, nil
	}

	created, err := parseTimestamp(attrs[tsKey])
	if err != nil {
		return meta, err
	}

	uid, err := requireInt(attrs, uidKey)
	if err != nil {
		return meta, err
	}

	changeset, err := requireInt(attrs, csKey)
	if err != nil {
		return meta, err
	}

	meta.Author = &model.AuthorInformation{
		Created:   created,
		UID:       uid,
		User:      attrs[usrKey],
		ChangeSet: changeset,
	}

	return meta, nil
}

func parseTimestamp(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, model.NewBadAttributeValueError("timestamp", s)
	}

	return t.Unix(), nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}

	return m
}

func requireString(attrs map[string]string, name string) (string, error) {
	v, ok := attrs[name]
	if !ok {
		return "", model.NewMissingAttributeError(name)
	}

	return v, nil
}

func requireInt(attrs map[string]string, name string) (int64, error) {
	v, err := requireString(attrs, name)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, model.NewBadAttributeValueError(name, v)
	}

	return n, nil
}

func requireFloat(attrs map[string]string, name string) (float64, error) {
	v, err := requireString(attrs, name)
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, model.NewBadAttributeValueError(name, v)
	}

	return f, nil
}

// syntaxErr translates a tokenizer error into a XmlSyntax Error carrying the
// line/column of dec's current byte offset within data.
func syntaxErr(data []byte, dec *xml.Decoder, err error) error {
	line, col := position(data, dec.InputOffset())

	return model.NewXMLSyntaxError(line, col, err)
}

func position(data []byte, offset int64) (int, int) {
	n := int(offset)
	if n > len(data) {
		n = len(data)
	}

	line, col := 1, 1

	for i := 0; i < n; i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}
