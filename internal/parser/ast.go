package parser

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock represents a fenced code block from a patch request.
type CodeBlock struct {
	// Hint is the raw source of the paragraph immediately preceding the block.
	Hint string
	// Role is the first word of the info string ("old", "new", ...).
	Role string
	// Content is the verbatim text inside the fence, trailing newline included.
	Content string
}

// ExtractCodeBlocks walks the markdown AST and returns every fenced code block
// in document order.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block := CodeBlock{
			Role:    string(fenced.Language(source)),
			Content: string(rawLines(fenced.Lines(), source)),
		}
		if p, ok := fenced.PreviousSibling().(*ast.Paragraph); ok {
			block.Hint = string(bytes.TrimSpace(rawLines(p.Lines(), source)))
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

func rawLines(lines *text.Segments, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.Bytes()
}
