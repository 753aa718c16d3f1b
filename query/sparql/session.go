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

package sparql

import (
	"context"

	"github.com/owlmorph/owlmorph/query"
)

// Execute parses query text against the session's namespace table and runs
// it. Parse errors (including unknown prefixes) fail before any evaluation.
func Execute(ctx context.Context, s *query.Session, text string) (query.Result, error) {
	q, err := Parse(text, s.Namespaces())
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, q)
}
