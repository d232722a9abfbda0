package embeddings

// ONNXConfig holds configuration for the raw ONNX sentence encoder.
//
// ModelDir must contain model.onnx and vocab.txt from a BERT-style
// sentence-transformer export. The graph is expected to take input_ids and
// attention_mask (and token_type_ids when TokenTypeIDs is set) and to expose
// last_hidden_state.
type ONNXConfig struct {
	ModelDir string
	// SeqLen is the fixed token window. Defaults to 128.
	SeqLen int
	// TokenTypeIDs feeds an all-zero token_type_ids input.
	TokenTypeIDs bool
	// Dimension is the hidden size of the model. Defaults to 384.
	Dimension int
	// LibraryPath overrides onnxruntime discovery.
	LibraryPath string
}

const (
	defaultONNXSeqLen    = 128
	defaultONNXDimension = 384
)

func (c *ONNXConfig) applyDefaults() {
	if c.SeqLen <= 0 {
		c.SeqLen = defaultONNXSeqLen
	}
	if c.Dimension <= 0 {
		c.Dimension = defaultONNXDimension
	}
}
