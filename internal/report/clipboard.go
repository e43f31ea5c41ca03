package report

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/socpatch/model"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// CopyToClipboard puts the Markdown report on the system clipboard.
func CopyToClipboard(s model.Summary) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboardWrite(Markdown(s)); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
