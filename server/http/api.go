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

// Package owlhttp exposes the query engine over HTTP.
package owlhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/query"
	"github.com/owlmorph/owlmorph/query/sparql"
	"github.com/owlmorph/owlmorph/version"
)

const (
	prefix       = "/api/v1"
	defaultLimit = 100

	hdrContentType  = "Content-Type"
	contentTypeJSON = "application/json"
)

// HandlerWrapper wraps the assembled handler, outermost last.
type HandlerWrapper func(http.Handler) http.Handler

// API serves the v1 endpoints over a session.
type API struct {
	ses     *query.Session
	ro      bool
	timeout time.Duration
	handler http.Handler
}

// NewAPI assembles the API routes on a fresh router.
func NewAPI(ses *query.Session, wrappers ...HandlerWrapper) *API {
	r := httprouter.New()
	api := &API{ses: ses}
	api.registerOn(r)
	var handler http.Handler = r
	for _, wrapper := range wrappers {
		handler = wrapper(handler)
	}
	api.handler = handler
	return api
}

// SetReadOnly rejects INSERT queries and the write endpoint.
func (api *API) SetReadOnly(ro bool) {
	api.ro = ro
}

// SetQueryTimeout bounds each query evaluation.
func (api *API) SetQueryTimeout(dt time.Duration) {
	api.timeout = dt
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.handler.ServeHTTP(w, r)
}

func toHandle(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}

func (api *API) registerOn(r *httprouter.Router) {
	r.POST(prefix+"/query", toHandle(api.ServeQuery))
	r.POST(prefix+"/write", toHandle(api.ServeWrite))
	r.GET(prefix+"/graphs", toHandle(api.ServeGraphs))
	r.GET(prefix+"/namespaces", toHandle(api.ServeNamespaces))
	r.GET(prefix+"/version", toHandle(api.ServeVersion))
	r.GET("/healthz", toHandle(api.ServeHealth))
	r.Handler("GET", "/metrics", promhttp.Handler())
}

func jsonResponse(w http.ResponseWriter, code int, err interface{}) {
	w.Header().Set(hdrContentType, contentTypeJSON)
	w.WriteHeader(code)
	var s string
	switch err := err.(type) {
	case string:
		s = err
	case error:
		s = err.Error()
	default:
		s = "internal error"
	}
	data, _ := json.Marshal(map[string]string{"error": s})
	w.Write(data)
}

// queryResponse is the JSON envelope for a query result; exactly one of
// the payload fields is set, matching the query's execution form.
type queryResponse struct {
	Columns []string            `json:"columns,omitempty"`
	Rows    []map[string]string `json:"rows,omitempty"`
	Triples []string            `json:"triples,omitempty"`
	Added   *int                `json:"added,omitempty"`
	Time    string              `json:"time"`
}

// ServeQuery runs the query in the request body and reports the result as
// JSON. Terms are serialized in their N-Quads string form.
func (api *API) ServeQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if api.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.timeout)
		defer cancel()
	}
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	text := string(data)

	q, err := sparql.Parse(text, api.ses.Namespaces())
	if err != nil {
		observeQuery("parse", "error", 0)
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	form := queryForm(q)
	if api.ro && q.Insert != nil {
		observeQuery(form, "denied", 0)
		jsonResponse(w, http.StatusForbidden, errors.New("database is read-only"))
		return
	}

	start := time.Now()
	res, err := api.ses.Run(ctx, q)
	took := time.Since(start)
	if err != nil {
		observeQuery(form, "error", took)
		code := http.StatusInternalServerError
		if errors.Is(err, query.ErrResourceExceeded) {
			code = http.StatusUnprocessableEntity
		}
		jsonResponse(w, code, err)
		return
	}
	observeQuery(form, "ok", took)

	resp := queryResponse{Time: took.String()}
	switch res := res.(type) {
	case *query.Rows:
		resp.Columns = res.Columns
		for _, row := range res.Rows {
			out := make(map[string]string, len(row))
			for c, t := range row {
				out[c] = t.String()
			}
			resp.Rows = append(resp.Rows, out)
		}
	case *query.Triples:
		for _, t := range res.Triples {
			resp.Triples = append(resp.Triples, t.String())
		}
	case *query.Mutation:
		resp.Added = &res.Added
		triplesInserted.Add(float64(res.Added))
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(resp)
}

func queryForm(q *query.Query) string {
	switch {
	case q.Select != nil:
		return "select"
	case q.Construct != nil:
		return "construct"
	case q.Insert != nil:
		return "insert"
	}
	return "unknown"
}

// ServeWrite loads N-Quads from the request body into the dataset.
func (api *API) ServeWrite(w http.ResponseWriter, r *http.Request) {
	if api.ro {
		jsonResponse(w, http.StatusForbidden, errors.New("database is read-only"))
		return
	}
	qr := nquads.NewReader(r.Body, false)
	n, err := quad.Copy(api.ses.Store(), qr)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, err)
		return
	}
	if clog.V(1) {
		clog.Infof("http: wrote %d quads", n)
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(map[string]int{"written": n})
}

// ServeGraphs lists the named graphs with their sizes.
func (api *API) ServeGraphs(w http.ResponseWriter, r *http.Request) {
	type graphInfo struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
	store := api.ses.Store()
	out := []graphInfo{{Name: "", Size: store.GraphSize(nil)}}
	for _, name := range store.GraphNames() {
		out = append(out, graphInfo{Name: name.String(), Size: store.GraphSize(name)})
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(out)
}

// ServeNamespaces lists the visible prefix table.
func (api *API) ServeNamespaces(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]string)
	for _, p := range api.ses.Namespaces().List() {
		out[p[0]] = p[1]
	}
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(out)
}

func (api *API) ServeVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(hdrContentType, contentTypeJSON)
	json.NewEncoder(w).Encode(map[string]string{
		"version":   version.Version,
		"git_hash":  version.GitHash,
		"buildDate": version.BuildDate,
	})
}

func (api *API) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
