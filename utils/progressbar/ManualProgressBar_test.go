package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 4)
	assert.Equal(t, 0.0, p.Progress())

	p.Increment()
	p.Increment()
	assert.Equal(t, 0.5, p.Progress())
	bar := ansi.Strip(p.String())
	assert.True(t, strings.HasPrefix(bar, "|"+strings.Repeat("█", 5)+
		strings.Repeat(" ", 5)+"|"), bar)
	assert.Contains(t, bar, "[50.00% | elapsed: 0s]")

	// Progress saturates
	for i := 0; i < 10; i++ {
		p.Increment()
	}
	assert.Equal(t, 1.0, p.Progress())

	p.Display()
	assert.Contains(t, ansi.Strip(buf.String()), "100.00%")
}
