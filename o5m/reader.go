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
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"m4o.io/osm/internal/stringtable"
	"m4o.io/osm/internal/varint"
	"m4o.io/osm/model"
)

// Reader decodes an o5m byte stream into a model.Osm. A Reader owns its
// input stream exclusively for the duration of a Read call; its string
// table and delta state are private to this instance.
type Reader struct {
	r     *bufio.Reader
	table *stringtable.Table
	delta deltaState
}

// NewReader returns a Reader that decodes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:     bufio.NewReader(r),
		table: stringtable.New(),
	}
}

// toOsmErr maps internal errors to this module's exported Error taxonomy.
func toOsmErr(err error) error {
	switch {
	case err == nil:
		return nil
	case err == varint.ErrTruncatedInput:
		return model.NewTruncatedRecordError()
	case err == varint.ErrOverflow:
		return model.NewOverflowError()
	}

	var badRef *stringtable.ErrBadReference
	if ok := asErrBadReference(err, &badRef); ok {
		return model.NewBadStringRefError(badRef.Offset)
	}

	return model.NewIoError(err)
}

func asErrBadReference(err error, target **stringtable.ErrBadReference) bool {
	if e, ok := err.(*stringtable.ErrBadReference); ok {
		*target = e

		return true
	}

	return false
}

// Read decodes one full o5m document from the stream.
func (rd *Reader) Read() (*model.Osm, error) {
	doc := model.NewOsm()

	first, err := rd.r.ReadByte()
	if err != nil || first != markerReset {
		return nil, model.NewBadMagicError()
	}

	rd.delta.reset()
	rd.table.Clear()

	for {
		marker, err := rd.r.ReadByte()
		if err == io.EOF {
			return doc, nil
		} else if err != nil {
			return nil, toOsmErr(err)
		}

		switch marker {
		case markerReset:
			rd.delta.reset()
			rd.table.Clear()

		case markerEOF:
			return doc, nil

		case markerNode:
			body, err := rd.readBody()
			if err != nil {
				return nil, err
			}

			node, err := rd.parseNode(body)
			if err != nil {
				return nil, err
			}

			doc.AddNode(node)

		case markerWay:
			body, err := rd.readBody()
			if err != nil {
				return nil, err
			}

			way, err := rd.parseWay(body)
			if err != nil {
				return nil, err
			}

			doc.AddWay(way)

		case markerRelation:
			body, err := rd.readBody()
			if err != nil {
				return nil, err
			}

			relation, err := rd.parseRelation(body)
			if err != nil {
				return nil, err
			}

			doc.AddRelation(relation)

		case markerBoundingBox:
			body, err := rd.readBody()
			if err != nil {
				return nil, err
			}

			boundary, err := parseBoundingBox(body)
			if err != nil {
				return nil, err
			}

			doc.Boundary = boundary

		default:
			// 0xdc (timestamp), 0xe0 (header), and any reserved or
			// otherwise unrecognized marker all carry a length-prefixed
			// body per the framing rule and are simply skipped.
			if _, err := rd.readBody(); err != nil {
				return nil, err
			}
		}
	}
}

// readBody reads the unsigned-LEB128 length prefix and that many body
// bytes, failing with TruncatedRecord if the stream runs out first.
func (rd *Reader) readBody() ([]byte, error) {
	length, err := varint.ReadUnsigned(rd.r)
	if err != nil {
		return nil, toOsmErr(err)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return nil, model.NewTruncatedRecordError()
	}

	return buf, nil
}

func (rd *Reader) parseNode(body []byte) (model.Node, error) {
	br := bytes.NewReader(body)

	idDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Node{}, toOsmErr(err)
	}

	id := varint.ApplyDelta(&rd.delta.nodeID, idDelta)

	meta, err := rd.readAuthorBlock(br)
	if err != nil {
		return model.Node{}, err
	}

	var coord model.Coordinate

	if br.Len() > 0 {
		lonDelta, err := varint.ReadSigned(br)
		if err != nil {
			return model.Node{}, toOsmErr(err)
		}

		latDelta, err := varint.ReadSigned(br)
		if err != nil {
			return model.Node{}, toOsmErr(err)
		}

		coord = model.Coordinate{
			Lon: int32(varint.ApplyDelta(&rd.delta.nodeLon, lonDelta)),
			Lat: int32(varint.ApplyDelta(&rd.delta.nodeLat, latDelta)),
		}
	}

	tags, err := rd.readTags(br)
	if err != nil {
		return model.Node{}, err
	}

	meta.Tags = tags

	return model.Node{ID: model.ID(id), Coordinate: coord, Meta: meta}, nil
}

func (rd *Reader) parseWay(body []byte) (model.Way, error) {
	br := bytes.NewReader(body)

	idDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Way{}, toOsmErr(err)
	}

	id := varint.ApplyDelta(&rd.delta.wayID, idDelta)

	meta, err := rd.readAuthorBlock(br)
	if err != nil {
		return model.Way{}, err
	}

	refsLen, err := varint.ReadUnsigned(br)
	if err != nil {
		return model.Way{}, toOsmErr(err)
	}

	refsBuf := make([]byte, refsLen)
	if _, err := io.ReadFull(br, refsBuf); err != nil {
		return model.Way{}, model.NewTruncatedRecordError()
	}

	refsReader := bytes.NewReader(refsBuf)

	var refs []model.ID

	for refsReader.Len() > 0 {
		d, err := varint.ReadSigned(refsReader)
		if err != nil {
			return model.Way{}, toOsmErr(err)
		}

		ref := varint.ApplyDelta(&rd.delta.wayRef, d)
		refs = append(refs, model.ID(ref))
	}

	tags, err := rd.readTags(br)
	if err != nil {
		return model.Way{}, err
	}

	meta.Tags = tags

	return model.Way{ID: model.ID(id), Refs: refs, Meta: meta}, nil
}

func (rd *Reader) parseRelation(body []byte) (model.Relation, error) {
	br := bytes.NewReader(body)

	idDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Relation{}, toOsmErr(err)
	}

	id := varint.ApplyDelta(&rd.delta.relationID, idDelta)

	meta, err := rd.readAuthorBlock(br)
	if err != nil {
		return model.Relation{}, err
	}

	membersLen, err := varint.ReadUnsigned(br)
	if err != nil {
		return model.Relation{}, toOsmErr(err)
	}

	membersBuf := make([]byte, membersLen)
	if _, err := io.ReadFull(br, membersBuf); err != nil {
		return model.Relation{}, model.NewTruncatedRecordError()
	}

	membersReader := bytes.NewReader(membersBuf)

	var members []model.Member

	for membersReader.Len() > 0 {
		member, err := rd.readMember(membersReader)
		if err != nil {
			return model.Relation{}, err
		}

		members = append(members, member)
	}

	tags, err := rd.readTags(br)
	if err != nil {
		return model.Relation{}, err
	}

	meta.Tags = tags

	return model.Relation{ID: model.ID(id), Members: members, Meta: meta}, nil
}

func (rd *Reader) readMember(br *bytes.Reader) (model.Member, error) {
	rawDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Member{}, toOsmErr(err)
	}

	roleFull, err := rd.readSingle(br)
	if err != nil {
		return model.Member{}, err
	}

	if len(roleFull) == 0 {
		return model.Member{}, model.NewTruncatedRecordError()
	}

	var kind model.MemberType

	switch roleFull[0] {
	case '0':
		kind = model.MemberNode
	case '1':
		kind = model.MemberWay
	case '2':
		kind = model.MemberRelation
	default:
		return model.Member{}, model.NewTruncatedRecordError()
	}

	acc := rd.delta.refAccumulator(kind)
	memberID := varint.ApplyDelta(acc, rawDelta)

	return model.Member{Type: kind, Ref: model.ID(memberID), Role: roleFull[1:]}, nil
}

// readAuthorBlock reads the version varint and, if non-zero, the
// timestamp/changeset/user fields that follow it.
func (rd *Reader) readAuthorBlock(br *bytes.Reader) (model.Meta, error) {
	version, err := varint.ReadUnsigned(br)
	if err != nil {
		return model.Meta{}, toOsmErr(err)
	}

	if version == 0 {
		return model.Meta{}, nil
	}

	v := int64(version)

	tsDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Meta{}, toOsmErr(err)
	}

	timestamp := varint.ApplyDelta(&rd.delta.timestamp, tsDelta)

	csDelta, err := varint.ReadSigned(br)
	if err != nil {
		return model.Meta{}, toOsmErr(err)
	}

	changeset := varint.ApplyDelta(&rd.delta.changeset, csDelta)

	uid, user, err := rd.readUser(br)
	if err != nil {
		return model.Meta{}, err
	}

	return model.Meta{
		Version: &v,
		Author: &model.AuthorInformation{
			Created:   timestamp,
			ChangeSet: changeset,
			UID:       uid,
			User:      user,
		},
	}, nil
}

func (rd *Reader) readUser(br *bytes.Reader) (int64, string, error) {
	ref, err := varint.ReadUnsigned(br)
	if err != nil {
		return 0, "", toOsmErr(err)
	}

	var uidStr, user string

	if ref == 0 {
		uidStr, err = readCString(br)
		if err != nil {
			return 0, "", err
		}

		user, err = readCString(br)
		if err != nil {
			return 0, "", err
		}

		stored := uidStr + "\x00" + user + "\x00"
		if stringtable.Eligible(stored) {
			rd.table.Insert(stored)
		}
	} else {
		stored, err := rd.table.Lookup(int(ref))
		if err != nil {
			return 0, "", toOsmErr(err)
		}

		uidStr, user = splitPair(stored)
	}

	uid, _ := strconv.ParseInt(uidStr, 10, 64)

	return uid, user, nil
}

func (rd *Reader) readTags(br *bytes.Reader) ([]model.Tag, error) {
	var tags []model.Tag

	for br.Len() > 0 {
		tag, err := rd.readTag(br)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

func (rd *Reader) readTag(br *bytes.Reader) (model.Tag, error) {
	ref, err := varint.ReadUnsigned(br)
	if err != nil {
		return model.Tag{}, toOsmErr(err)
	}

	if ref == 0 {
		key, err := readCString(br)
		if err != nil {
			return model.Tag{}, err
		}

		value, err := readCString(br)
		if err != nil {
			return model.Tag{}, err
		}

		stored := key + "\x00" + value + "\x00"
		if stringtable.Eligible(stored) {
			rd.table.Insert(stored)
		}

		return model.Tag{Key: key, Value: value}, nil
	}

	stored, err := rd.table.Lookup(int(ref))
	if err != nil {
		return model.Tag{}, toOsmErr(err)
	}

	key, value := splitPair(stored)

	return model.Tag{Key: key, Value: value}, nil
}

// readSingle reads a single string-table slot (not a key/value pair), used
// for relation member roles.
func (rd *Reader) readSingle(br *bytes.Reader) (string, error) {
	ref, err := varint.ReadUnsigned(br)
	if err != nil {
		return "", toOsmErr(err)
	}

	if ref == 0 {
		s, err := readCString(br)
		if err != nil {
			return "", err
		}

		stored := s + "\x00"
		if stringtable.Eligible(stored) {
			rd.table.Insert(stored)
		}

		return s, nil
	}

	stored, err := rd.table.Lookup(int(ref))
	if err != nil {
		return "", toOsmErr(err)
	}

	return strings.TrimSuffix(stored, "\x00"), nil
}

// splitPair splits a stored "key\x00value\x00" form into its two parts.
func splitPair(stored string) (string, string) {
	idx := strings.IndexByte(stored, 0)
	if idx < 0 {
		return stored, ""
	}

	key := stored[:idx]
	value := strings.TrimSuffix(stored[idx+1:], "\x00")

	return key, value
}

// readCString reads bytes up to and including the next 0x00, returning the
// bytes before it.
func readCString(br *bytes.Reader) (string, error) {
	var buf bytes.Buffer

	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", model.NewTruncatedRecordError()
		}

		if b == 0 {
			return buf.String(), nil
		}

		buf.WriteByte(b)
	}
}

func parseBoundingBox(body []byte) (*model.Boundary, error) {
	br := bytes.NewReader(body)

	minLon, err := varint.ReadSigned(br)
	if err != nil {
		return nil, toOsmErr(err)
	}

	minLat, err := varint.ReadSigned(br)
	if err != nil {
		return nil, toOsmErr(err)
	}

	maxLon, err := varint.ReadSigned(br)
	if err != nil {
		return nil, toOsmErr(err)
	}

	maxLat, err := varint.ReadSigned(br)
	if err != nil {
		return nil, toOsmErr(err)
	}

	return &model.Boundary{
		MinLat: int32(minLat),
		MinLon: int32(minLon),
		MaxLat: int32(maxLat),
		MaxLon: int32(maxLon),
	}, nil
}
