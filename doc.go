// Package librank ranks a document library against the intent
// expressed by a set of query documents.
//
// The pipeline extracts text from both collections, splits it into
// overlapping sentence-bounded chunks, embeds the library chunks into a
// persisted exact-search index, pools the query chunk embeddings into a
// single intent vector, scores the library against it and copies the
// top documents into an output directory in rank order.
//
// Package librank is the facade; the stages live in the extract, chunk,
// index, rank and materialize packages, with the question-answering
// agent in agent and collection maintenance tooling in dedupe.
package librank
