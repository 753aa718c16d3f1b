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

// Package voc implements an RDF namespace (vocabulary) registry.
//
// Well-known vocabularies register themselves into a process-global table;
// a Namespaces value layers query-local prefixes over that table and is the
// unit handed to the query binder.
package voc

import (
	"fmt"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	prefixes map[string]string
)

// RegisterPrefix associates a given prefix with a base vocabulary IRI.
// The prefix is registered without the trailing colon ("skos", not "skos:").
func RegisterPrefix(pref string, ns string) {
	pref = strings.TrimSuffix(pref, ":")
	mu.Lock()
	if prefixes == nil {
		prefixes = make(map[string]string)
	}
	prefixes[pref] = ns
	mu.Unlock()
}

// UnknownPrefixError is returned when a prefixed name cannot be expanded.
type UnknownPrefixError struct {
	Prefix string
}

func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("voc: missing prefix %q", e.Prefix)
}

// Namespaces is a prefix table: query-local prefixes layered over the
// globally registered vocabularies. The zero value is usable and resolves
// global prefixes only.
type Namespaces struct {
	lmu   sync.RWMutex
	local map[string]string
}

// New returns an empty Namespaces resolving against the global registry.
func New() *Namespaces {
	return &Namespaces{}
}

// Register adds a query-local prefix, shadowing any global registration.
func (ns *Namespaces) Register(pref, iri string) {
	pref = strings.TrimSuffix(pref, ":")
	ns.lmu.Lock()
	if ns.local == nil {
		ns.local = make(map[string]string)
	}
	ns.local[pref] = iri
	ns.lmu.Unlock()
}

// Resolve returns the base IRI a prefix maps to.
func (ns *Namespaces) Resolve(pref string) (string, bool) {
	pref = strings.TrimSuffix(pref, ":")
	if ns != nil {
		ns.lmu.RLock()
		base, ok := ns.local[pref]
		ns.lmu.RUnlock()
		if ok {
			return base, true
		}
	}
	mu.RLock()
	base, ok := prefixes[pref]
	mu.RUnlock()
	return base, ok
}

// Expand resolves a prefixed name such as "skos:Concept" to a full IRI.
// An unknown prefix is an error; binding a query must fail on it.
func (ns *Namespaces) Expand(name string) (string, error) {
	i := strings.Index(name, ":")
	if i < 0 {
		return "", fmt.Errorf("voc: %q is not a prefixed name", name)
	}
	base, ok := ns.Resolve(name[:i])
	if !ok {
		return "", &UnknownPrefixError{Prefix: name[:i]}
	}
	return base + name[i+1:], nil
}

// ExpandFast resolves a prefixed name, returning the input unchanged when
// the prefix is unknown or the name carries no prefix.
func (ns *Namespaces) ExpandFast(name string) string {
	full, err := ns.Expand(name)
	if err != nil {
		return name
	}
	return full
}

// Compress replaces the longest matching registered base IRI with its
// prefix, returning the input unchanged when nothing matches.
func (ns *Namespaces) Compress(iri string) string {
	bestPref, bestBase := "", ""
	try := func(pref, base string) {
		if strings.HasPrefix(iri, base) && len(base) > len(bestBase) {
			bestPref, bestBase = pref, base
		}
	}
	if ns != nil {
		ns.lmu.RLock()
		for pref, base := range ns.local {
			try(pref, base)
		}
		ns.lmu.RUnlock()
	}
	mu.RLock()
	for pref, base := range prefixes {
		try(pref, base)
	}
	mu.RUnlock()
	if bestBase == "" {
		return iri
	}
	return bestPref + ":" + iri[len(bestBase):]
}

// List enumerates all visible prefix-IRI pairs.
func (ns *Namespaces) List() (out [][2]string) {
	seen := make(map[string]bool)
	if ns != nil {
		ns.lmu.RLock()
		for pref, base := range ns.local {
			out = append(out, [2]string{pref, base})
			seen[pref] = true
		}
		ns.lmu.RUnlock()
	}
	mu.RLock()
	for pref, base := range prefixes {
		if !seen[pref] {
			out = append(out, [2]string{pref, base})
		}
	}
	mu.RUnlock()
	return out
}
