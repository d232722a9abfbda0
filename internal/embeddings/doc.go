// Package embeddings provides sentence embedding generation via local ONNX models.
//
// Two providers are supported. FastEmbed wraps fastembed-go and downloads a
// pretrained sentence-transformer on first use. The ONNX encoder drives a raw
// onnxruntime session over a model directory (model.onnx + vocab.txt) and mean
// pools the last hidden state. Both need CGO and the onnxruntime shared library;
// without them constructors fail with ErrFastEmbedNotAvailable or
// ErrONNXNotAvailable so callers can fall back to another scorer.
package embeddings
