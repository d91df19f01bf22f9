//go:build tools

package traceguard

import (
	// Ensure tool dependencies.
	_ "golang.org/x/tools/cmd/stringer"
)
