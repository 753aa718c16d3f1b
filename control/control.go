// Copyright 2025 The Owlmorph Authors. All rights reserved.
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

// Package control models the external "graphs under team control" registry
// as a pluggable capability. The engine never hard-codes that platform's
// vocabulary; it only consumes (graph, tag) pairs from a Source.
package control

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cayleygraph/quad"
)

// GraphTag is one ownership record: a named graph and a domain tag.
type GraphTag struct {
	Graph quad.IRI
	Tag   string
}

// Source enumerates the graphs under team control with their tags.
type Source interface {
	ControlledGraphs(ctx context.Context) ([]GraphTag, error)
}

// Static is an in-memory Source.
type Static []GraphTag

func (s Static) ControlledGraphs(ctx context.Context) ([]GraphTag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []GraphTag(s), nil
}

// Parse reads a control listing: one record per line, whitespace-separated
// graph IRI and tag. Blank lines and '#' comments are skipped.
func Parse(r io.Reader) (Static, error) {
	var out Static
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("control: line %d: want '<graph> <tag>', got %q", line, text)
		}
		iri := strings.TrimSuffix(strings.TrimPrefix(fields[0], "<"), ">")
		out = append(out, GraphTag{Graph: quad.IRI(iri), Tag: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFile reads a control listing from a file.
func LoadFile(path string) (Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
