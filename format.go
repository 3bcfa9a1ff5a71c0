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

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"m4o.io/osm/model"
	"m4o.io/osm/o5m"
	"m4o.io/osm/xmlosm"
)

// format identifies which codec a path's extension selects.
type format int

const (
	formatXML format = iota
	formatO5M
)

// formatFromPath selects a codec by the lowercased extension of path:
// .osm and .xml select the XML codec, .o5m selects the o5m codec. Any
// other extension fails with UnsupportedFormat.
func formatFromPath(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".osm", ".xml":
		return formatXML, nil
	case ".o5m":
		return formatO5M, nil
	default:
		return 0, model.NewUnsupportedFormatError(filepath.Ext(path))
	}
}

// Read opens path and decodes it with the codec selected by its extension.
func Read(path string) (*model.Osm, error) {
	f, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, model.NewIoError(err)
	}
	defer file.Close()

	switch f {
	case formatXML:
		return xmlosm.NewReader(file).Read()
	case formatO5M:
		return o5m.NewReader(file).Read()
	default:
		return nil, fmt.Errorf("unreachable format %d", f)
	}
}

// Write creates or truncates path and encodes o with the codec selected by
// its extension.
func Write(path string, o *model.Osm) error {
	f, err := formatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return model.NewIoError(err)
	}
	defer file.Close()

	switch f {
	case formatXML:
		return xmlosm.NewWriter(file).Write(o)
	case formatO5M:
		return o5m.NewWriter(file).Write(o)
	default:
		return fmt.Errorf("unreachable format %d", f)
	}
}
