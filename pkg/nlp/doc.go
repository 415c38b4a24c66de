// Package nlp provides the lightweight text processing used by the
// retrieval pipeline: query-entity extraction for graph search, and a
// reusable retry policy for calls to external model APIs.
//
// Entity extraction here is deliberately simple. It does not call a
// model; it tokenizes the query, drops stopwords, and scans for
// capitalized-word runs. Model-based extraction of stored documents
// lives in the extractor package.
package nlp
