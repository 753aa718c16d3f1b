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

package decompressor

import (
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf
}

func TestPlainPassThrough(t *testing.T) {
	r, err := New(strings.NewReader("owlmorph data\n"))
	require.NoError(t, err)
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "owlmorph data\n", string(got))
}

func TestGzip(t *testing.T) {
	r, err := New(gzipped(t, "owlmorph data\n"))
	require.NoError(t, err)
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "owlmorph data\n", string(got))
}

func TestBadGzipHeader(t *testing.T) {
	_, err := New(strings.NewReader("\x1f\x8bowlmorph data\n"))
	assert.Equal(t, gzip.ErrHeader, err)
}

func TestBzip2Magic(t *testing.T) {
	// a valid header is enough to select the bzip2 path; the stream error
	// surfaces on read
	r, err := New(strings.NewReader("BZhowlmorph data\n"))
	require.NoError(t, err)
	_, err = ioutil.ReadAll(r)
	assert.Error(t, err)
}
