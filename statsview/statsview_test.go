package statsview

import (
	"bytes"
	"strings"
	"testing"
)

func TestLaunch_Reports(t *testing.T) {
	if Available() {
		t.Skip("server would bind a port")
	}
	var out bytes.Buffer
	Launch(&out)
	if !strings.Contains(out.String(), "not available") {
		t.Errorf("Launch wrote %q", out.String())
	}
}
