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


// Package ai provides abstractions for the AI services used by librank.
//
// This package defines interfaces for text embedding and for producing
// grounded answers from retrieved context. The ranking core and the
// retrieval agent depend on these abstractions rather than on a concrete
// provider, which keeps the pipeline testable with deterministic doubles.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Answerer: Produces an answer from a question plus retrieved context
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Concrete implementations for OpenAI-compatible local services live in
// the openai subpackage; deterministic test doubles live in mock.
package ai
