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

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// extValue is a pflag.Value for the --to flag: it normalizes a bare
// extension name ("o5m") or a dotted one (".o5m") to the dotted form and
// rejects anything osmconv cannot write.
type extValue struct {
	value *string
}

// newExtValue registers an extValue backed by p, defaulting to def.
func newExtValue(def string, p *string) pflag.Value {
	*p = def

	return &extValue{value: p}
}

func (e *extValue) Set(val string) error {
	if !strings.HasPrefix(val, ".") {
		val = "." + val
	}

	switch strings.ToLower(val) {
	case ".osm", ".xml", ".o5m":
		*e.value = val

		return nil
	default:
		return fmt.Errorf("unsupported target extension %q", val)
	}
}

func (e *extValue) Type() string {
	return "ext"
}

func (e *extValue) String() string {
	if e.value == nil {
		return ""
	}

	return *e.value
}
