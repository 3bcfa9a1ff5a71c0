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

// Package osm reads and writes OpenStreetMap map data in its XML and o5m
// on-disk forms, and offers a builder facade for assembling a map from
// geometric primitives.
package osm

import "m4o.io/osm/model"

// Kind and Error are aliases of the types the o5m and xmlosm codec packages
// actually construct; they live in model to avoid an import cycle (those
// packages import this one's sibling packages, not the reverse), but
// callers of this package see them as osm.Kind / osm.Error.
type (
	Kind  = model.Kind
	Error = model.Error
)

// Kind values, re-exported from model for callers of this package.
const (
	KindIo                = model.KindIo
	KindTruncatedInput    = model.KindTruncatedInput
	KindTruncatedRecord   = model.KindTruncatedRecord
	KindOverflow          = model.KindOverflow
	KindBadMagic          = model.KindBadMagic
	KindUnknownRecord     = model.KindUnknownRecord
	KindBadStringRef      = model.KindBadStringRef
	KindXmlSyntax         = model.KindXmlSyntax
	KindMissingAttribute  = model.KindMissingAttribute
	KindBadAttributeValue = model.KindBadAttributeValue
	KindInvalidGeometry   = model.KindInvalidGeometry
	KindUnsupportedFormat = model.KindUnsupportedFormat
)

// Sentinel Error values, usable with errors.Is against any error this
// module returns.
var (
	ErrIo                = model.ErrIo
	ErrTruncatedInput    = model.ErrTruncatedInput
	ErrTruncatedRecord   = model.ErrTruncatedRecord
	ErrOverflow          = model.ErrOverflow
	ErrBadMagic          = model.ErrBadMagic
	ErrUnknownRecord     = model.ErrUnknownRecord
	ErrBadStringRef      = model.ErrBadStringRef
	ErrXmlSyntax         = model.ErrXmlSyntax
	ErrMissingAttribute  = model.ErrMissingAttribute
	ErrBadAttributeValue = model.ErrBadAttributeValue
	ErrInvalidGeometry   = model.ErrInvalidGeometry
	ErrUnsupportedFormat = model.ErrUnsupportedFormat
)
