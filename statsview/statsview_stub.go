//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

// Launch reports that the binary was built without the stats server
func Launch(output io.Writer) {
	fmt.Fprintln(output, "stats server not available, rebuild with -tags statsview")
}

// Available is false without the statsview build tag
func Available() bool {
	return false
}
