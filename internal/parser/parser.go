package parser

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/sokinpui/docpatch/model"
)

const (
	roleOld = "old"
	roleNew = "new"
)

// ErrInvalidRequest is returned when a patch request does not describe exactly
// one operation.
var ErrInvalidRequest = errors.New("invalid patch request")

var pathInHintRegex = regexp.MustCompile("`([^`\n]+)`")

// ParseRequest reads a markdown patch request: a paragraph naming the target
// file in backticks, followed by an ```old block and a ```new block.
// The new block may be empty. The path may be left out when the caller
// already knows the target and fills it in afterwards.
func ParseRequest(content string) (model.Operation, error) {
	blocks, err := ExtractCodeBlocks([]byte(content))
	if err != nil {
		return model.Operation{}, errors.Wrap(err, "failed to parse patch request")
	}

	var oldBlock, newBlock *CodeBlock
	for i := range blocks {
		block := &blocks[i]
		switch block.Role {
		case roleOld:
			if oldBlock != nil {
				return model.Operation{}, errors.Wrap(ErrInvalidRequest, "more than one ```old block")
			}
			oldBlock = block
		case roleNew:
			if newBlock != nil {
				return model.Operation{}, errors.Wrap(ErrInvalidRequest, "more than one ```new block")
			}
			newBlock = block
		}
	}

	if oldBlock == nil {
		return model.Operation{}, errors.Wrap(ErrInvalidRequest, "missing ```old block")
	}
	if newBlock == nil {
		return model.Operation{}, errors.Wrap(ErrInvalidRequest, "missing ```new block")
	}

	return model.Operation{
		Path: extractPathFromHint(oldBlock.Hint),
		Old:  oldBlock.Content,
		New:  newBlock.Content,
	}, nil
}

func extractPathFromHint(hint string) string {
	for _, match := range pathInHintRegex.FindAllStringSubmatch(hint, -1) {
		path := strings.TrimSpace(match[1])
		// Skip spans with spaces, they are commands rather than paths.
		if path != "" && !strings.Contains(path, " ") {
			return path
		}
	}
	return ""
}
