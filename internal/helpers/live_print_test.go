package helpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiveLoggerFooters(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewLiveLogger(out, 0)

	l.FooterLogger(0).Println("a")
	l.FooterLogger(2).Printf("game %v", 3)
	assert.Equal(t, "a\n\ngame 3", l.FooterString())

	l.FooterLogger(0).Print("b")
	assert.Equal(t, "b\n\ngame 3", l.FooterString())
	assert.True(t, strings.HasSuffix(out.String(), "\033[J"+"b\n\ngame 3\n"))
}

func TestLiveLoggerPrintsAboveFooters(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewLiveLogger(out, 0)
	l.SetFooter("x\ny", 0)

	out.Reset()
	l.Println("done")

	// two footer lines to move up past before reprinting
	assert.Equal(t, "\033[A\033[A\033[J"+"done\n"+"x\ny\n", out.String())
}

func TestWrapLine(t *testing.T) {
	red := "\x1b[31mred\x1b[0m"
	assert.Equal(t, red+" words\nhere", wrapLine(red+" words here", 9))
	assert.Equal(t, "short", wrapLine("short", 9))

	out := &bytes.Buffer{}
	l := NewLiveLogger(out, 9)
	l.SetFooter(red+" words here", 0)
	assert.Equal(t, red+" words\nhere", l.FooterString())
}
