package similarity

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/clarity/internal/embeddings"
)

// Mode names accepted by TiersFor.
const (
	ModeAuto    = "auto"
	ModeDense   = NameDense
	ModeGeneral = NameGeneral
	ModeLexical = NameLexical
)

// Options configures the embedding tiers.
type Options struct {
	Dense   embeddings.FastEmbedConfig
	General embeddings.ONNXConfig
}

// EncoderTier builds a cosine strategy over the encoder returned by open.
// The tier only initialises once the encoder passes Cosine.Check; otherwise
// the encoder is closed and Select moves on.
func EncoderTier(name string, open func(ctx context.Context) (Encoder, error)) Tier {
	return Tier{
		Name: name,
		Init: func(ctx context.Context) (Strategy, error) {
			enc, err := open(ctx)
			if err != nil {
				return nil, err
			}
			c := NewCosine(name, enc)
			if err := c.Check(ctx); err != nil {
				_ = enc.Close()
				return nil, err
			}
			return c, nil
		},
	}
}

// DenseTier builds the FastEmbed cosine strategy.
func DenseTier(cfg embeddings.FastEmbedConfig) Tier {
	return EncoderTier(NameDense, func(context.Context) (Encoder, error) {
		return embeddings.NewProvider(embeddings.ProviderConfig{Provider: "fastembed", FastEmbed: cfg})
	})
}

// GeneralTier builds the raw ONNX encoder cosine strategy.
func GeneralTier(cfg embeddings.ONNXConfig) Tier {
	return EncoderTier(NameGeneral, func(context.Context) (Encoder, error) {
		return embeddings.NewProvider(embeddings.ProviderConfig{Provider: "onnx", ONNX: cfg})
	})
}

// TiersFor returns the preference chain for mode. A forced embedding tier
// still falls back toward lexical.
func TiersFor(mode string, opts Options) ([]Tier, error) {
	switch mode {
	case ModeAuto, "":
		return []Tier{DenseTier(opts.Dense), GeneralTier(opts.General), LexicalTier()}, nil
	case ModeDense:
		return []Tier{DenseTier(opts.Dense), LexicalTier()}, nil
	case ModeGeneral:
		return []Tier{GeneralTier(opts.General), LexicalTier()}, nil
	case ModeLexical:
		return []Tier{LexicalTier()}, nil
	default:
		return nil, fmt.Errorf("unknown similarity strategy %q (want auto, dense, general or lexical)", mode)
	}
}

// ValidMode reports whether mode is accepted by TiersFor.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAuto, ModeDense, ModeGeneral, ModeLexical:
		return true
	}
	return false
}
