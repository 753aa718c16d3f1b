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

package internal

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/graph"
	"github.com/owlmorph/owlmorph/internal/decompressor"
)

// Load reads a dataset from a local file or an HTTP URL into the store,
// decompressing gzip/bzip2 transparently. Quad labels route triples to
// their named graphs.
func Load(store *graph.Store, batch int, path, typ string) error {
	var r io.Reader

	if path == "" {
		return nil
	}
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "file" || u.Scheme == "" {
		// Don't alter relative URL path or non-URL path parameter.
		if u.Scheme != "" && err == nil {
			path = filepath.Join(u.Host, u.Path)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("could not open file %q: %v", path, err)
		}
		defer f.Close()
		r = f
	} else {
		res, err := http.Get(path)
		if err != nil {
			return fmt.Errorf("could not get resource <%s>: %v", u, err)
		}
		defer res.Body.Close()
		r = res.Body
	}

	r, err = decompressor.New(r)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	var qr quad.Reader
	switch typ {
	case "", "cquad":
		qr = nquads.NewReader(r, false)
	case "nquad":
		qr = nquads.NewReader(r, true)
	default:
		rf := quad.FormatByName(typ)
		if rf == nil {
			return fmt.Errorf("unknown quad format %q", typ)
		} else if rf.Reader == nil {
			return fmt.Errorf("decoding of %q is not supported", typ)
		}
		qr = rf.Reader(r)
	}

	_, err = quad.CopyBatch(&batchLogger{BatchWriter: store}, qr, batch)
	if err != nil {
		return fmt.Errorf("load: failed to read data: %v", err)
	}
	return nil
}

type batchLogger struct {
	cnt int
	quad.BatchWriter
}

func (w *batchLogger) WriteQuads(quads []quad.Quad) (int, error) {
	n, err := w.BatchWriter.WriteQuads(quads)
	if clog.V(2) {
		w.cnt += n
		clog.Infof("loaded %d quads", w.cnt)
	}
	return n, err
}
