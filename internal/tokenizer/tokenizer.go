// Package tokenizer estimates token counts for text content using a
// byte-pair-encoding vocabulary.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter maps text to a token count. Implementations are stateless and safe
// for concurrent use.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is the tokenizer model assumed when none is configured.
	DefaultModel = "gpt-4o"
	// defaultEncodingName is the BPE vocabulary used when a model has no
	// dedicated encoding.
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model together with the
// resolved encoding or model name. Unknown models fall back to the default
// BPE vocabulary.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
	if encodingError == nil && encoding != nil {
		return bpeCounter{encoding: encoding, name: lowerModel}, lowerModel, nil
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return bpeCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

type bpeCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter bpeCounter) Name() string {
	return counter.name
}

func (counter bpeCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, fmt.Errorf("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
