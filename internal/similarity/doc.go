// Package similarity scores a scenario against a category's keyword list.
//
// Three strategies share one contract: dense embedding cosine (FastEmbed),
// general embedding cosine (raw ONNX encoder) and lexical overlap. Select
// tries them in preference order once at start-up and keeps the first that
// initialises; lexical always does.
package similarity
