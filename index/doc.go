// Copyright 2025 Poiesic Systems
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


// Package index builds, persists and searches the embedding index over
// library chunks.
//
// The index is a flat, exact inner-product store: every chunk vector is
// unit-normalized, so the inner product with a query vector is its
// cosine similarity. A metadata table runs parallel to the vector block
// and maps each vector position to its source document and literal
// chunk text.
//
// The persisted form is a pair of companion artifacts under one
// directory, vectors.bin and metadata.bin. They are written and read as
// a unit; loading one without the other is an error.
package index
