// Package compose assembles the project-context, tree, and per-file blocks
// into the final payload and computes its aggregate metrics.
package compose

import (
	"fmt"
	"strings"

	"github.com/temirov/gimtex/internal/tokenizer"
	"github.com/temirov/gimtex/internal/types"
)

const (
	structureHeader = "PROJECT STRUCTURE:\n==================\n"
	contentsHeader  = "\n\nFILE CONTENTS:\n==================\n\n"

	markdownHeaderFormat = "--- File: %s (%d tokens) ---\n"
	xmlOpenTagFormat     = "<file path=%q tokens=\"%d\">\n"
	xmlCloseTag          = "\n</file>\n"
)

// Assemble concatenates the optional project-context block, the labeled tree
// view, and one block per processed file in input order, skipping nil entries.
// The payload token count is recomputed over the entire assembled string,
// structural markup included; it is never a sum of per-file counts.
func Assemble(
	projectContext string,
	treeView string,
	files []*types.ProcessedFile,
	format string,
	counter tokenizer.Counter,
) (types.Payload, error) {
	var builder strings.Builder

	if projectContext != "" {
		builder.WriteString(projectContext)
		builder.WriteString("\n")
	}

	builder.WriteString(structureHeader)
	builder.WriteString(treeView)
	builder.WriteString(contentsHeader)

	for _, file := range files {
		if file == nil {
			continue
		}
		switch format {
		case types.FormatXML:
			builder.WriteString(fmt.Sprintf(xmlOpenTagFormat, file.Path, file.Tokens))
			builder.WriteString(file.Content)
			builder.WriteString(xmlCloseTag)
		default:
			builder.WriteString(fmt.Sprintf(markdownHeaderFormat, file.Path, file.Tokens))
			builder.WriteString(file.Content)
			builder.WriteString("\n\n")
		}
	}

	payloadText := builder.String()
	payloadTokens, countError := counter.CountString(payloadText)
	if countError != nil {
		return types.Payload{}, fmt.Errorf("count payload tokens: %w", countError)
	}

	return types.Payload{
		Text:       payloadText,
		TokenCount: payloadTokens,
		CharCount:  len(payloadText),
	}, nil
}
