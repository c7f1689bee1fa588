// Package clipboard gives the CLI access to the system clipboard
package clipboard

import (
	"fmt"

	cb "github.com/atotto/clipboard"
)

// System writes to the operating system clipboard
type System struct{}

// Copy implements session.Clipboard
func (System) Copy(text string) error {
	if cb.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return cb.WriteAll(text)
}
