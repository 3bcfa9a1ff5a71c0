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

// Package cli implements the osmconv command line tool: conversion between
// the XML and o5m map data formats, and summary info about a map file.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd is the osmconv entry point; subcommands register themselves on
// it via init().
var RootCmd = &cobra.Command{
	Use:   "osmconv",
	Short: "Convert and inspect OpenStreetMap map data files",
	Long:  "osmconv converts OpenStreetMap map data between its XML and o5m forms, and prints summary information about a file.",
}
