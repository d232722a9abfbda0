//go:build cgo

package embeddings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// ONNXEncoder runs a sentence-transformer graph directly through
// onnxruntime and mean-pools the token states into one vector per text.
type ONNXEncoder struct {
	session   *ort.AdvancedSession
	tokenizer *WordPieceTokenizer
	seqLen    int
	dimension int
	modelName string
	metrics   *Metrics

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypes    *ort.Tensor[int64]
	output        *ort.Tensor[float32]

	mu sync.Mutex
}

// NewONNXEncoder loads model.onnx and vocab.txt from cfg.ModelDir.
func NewONNXEncoder(cfg ONNXConfig) (*ONNXEncoder, error) {
	if cfg.ModelDir == "" {
		return nil, fmt.Errorf("%w: onnx model_dir is empty", ErrInvalidConfig)
	}
	cfg.applyDefaults()

	libPath := cfg.LibraryPath
	if libPath == "" {
		libPath = ONNXLibraryPath()
	}
	if libPath == "" {
		return nil, fmt.Errorf("%w: onnxruntime shared library not found (run 'clarity onnx install' or set ONNX_PATH)", ErrONNXNotAvailable)
	}
	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize onnxruntime: %v", ErrONNXNotAvailable, err)
		}
	}

	modelPath := filepath.Join(cfg.ModelDir, "model.onnx")
	vocabPath := filepath.Join(cfg.ModelDir, "vocab.txt")
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: model file missing at %s: %v", ErrONNXNotAvailable, modelPath, err)
	}

	tokenizer, err := LoadWordPieceTokenizer(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	e := &ONNXEncoder{
		tokenizer: tokenizer,
		seqLen:    cfg.SeqLen,
		dimension: cfg.Dimension,
		modelName: filepath.Base(filepath.Clean(cfg.ModelDir)),
		metrics:   NewMetrics(zap.NewNop()),
	}
	if err := e.allocate(modelPath, cfg.TokenTypeIDs); err != nil {
		e.destroyTensors()
		return nil, err
	}
	return e, nil
}

func (e *ONNXEncoder) allocate(modelPath string, tokenTypeIDs bool) error {
	var err error
	inputShape := ort.NewShape(1, int64(e.seqLen))
	if e.inputIDs, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
		return fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	if e.attentionMask, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
		return fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	outputShape := ort.NewShape(1, int64(e.seqLen), int64(e.dimension))
	if e.output, err = ort.NewEmptyTensor[float32](outputShape); err != nil {
		return fmt.Errorf("allocate output tensor: %w", err)
	}

	inputNames := []string{"input_ids", "attention_mask"}
	inputs := []ort.Value{e.inputIDs, e.attentionMask}
	if tokenTypeIDs {
		if e.tokenTypes, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
			return fmt.Errorf("allocate token_type_ids tensor: %w", err)
		}
		inputNames = append(inputNames, "token_type_ids")
		inputs = append(inputs, e.tokenTypes)
	}

	e.session, err = ort.NewAdvancedSession(
		modelPath,
		inputNames,
		[]string{"last_hidden_state"},
		inputs,
		[]ort.Value{e.output},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}
	return nil
}

// Embed encodes each text in turn; the session holds fixed single-row tensors.
func (e *ONNXEncoder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	start := time.Now()
	out := make([][]float32, 0, len(texts))
	var err error
	for _, text := range texts {
		if err = ctx.Err(); err != nil {
			break
		}
		var vec []float32
		vec, err = e.encode(text)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
			break
		}
		out = append(out, vec)
	}

	e.metrics.RecordGeneration(ctx, e.modelName, "embed", time.Since(start), len(texts), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *ONNXEncoder) encode(text string) ([]float32, error) {
	ids, attn := e.tokenizer.Encode(text, e.seqLen)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, fmt.Errorf("encoder closed")
	}

	copy(e.inputIDs.GetData(), ids)
	copy(e.attentionMask.GetData(), attn)
	if e.tokenTypes != nil {
		clear(e.tokenTypes.GetData())
	}

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	return meanPool(e.output.GetData(), attn, e.dimension), nil
}

// Dimension returns the hidden size of the model.
func (e *ONNXEncoder) Dimension() int {
	return e.dimension
}

// ModelName returns the model directory name.
func (e *ONNXEncoder) ModelName() string {
	return e.modelName
}

// Close destroys the session and its tensors.
func (e *ONNXEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	e.destroyTensors()
	return err
}

func (e *ONNXEncoder) destroyTensors() {
	for _, t := range []*ort.Tensor[int64]{e.inputIDs, e.attentionMask, e.tokenTypes} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if e.output != nil {
		_ = e.output.Destroy()
	}
	e.inputIDs, e.attentionMask, e.tokenTypes, e.output = nil, nil, nil, nil
}
