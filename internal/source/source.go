package source

import (
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SourceProvider retrieves a markdown patch request.
type SourceProvider struct {
	stdin         *os.File
	readClipboard func() (string, error)
	logger        *zap.SugaredLogger
}

// New creates a SourceProvider reading from the process stdin and the system clipboard.
func New(logger *zap.SugaredLogger) *SourceProvider {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SourceProvider{
		stdin:         os.Stdin,
		readClipboard: clipboard.ReadAll,
		logger:        logger,
	}
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
// An empty clipboard yields an empty string and no error.
func (sp *SourceProvider) GetContent() (string, error) {
	if sp.isPiped() {
		sp.logger.Debug("reading patch request from stdin")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read from stdin")
		}
		return string(content), nil
	}

	sp.logger.Debug("reading patch request from clipboard")
	content, err := sp.readClipboard()
	if err != nil {
		return "", errors.Wrap(err, "failed to read from clipboard")
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

func (sp *SourceProvider) isPiped() bool {
	if sp.stdin == nil {
		return false
	}
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
