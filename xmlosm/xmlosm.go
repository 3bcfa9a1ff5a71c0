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

// Package xmlosm implements the XML encoding of OpenStreetMap map data: an
// <osm> root carrying an optional <bounds> and any number of <node>, <way>,
// and <relation> elements.
package xmlosm

// osmVersion is the value of the root <osm version="..."> attribute.
const osmVersion = "0.6"
