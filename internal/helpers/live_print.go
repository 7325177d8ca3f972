package helpers

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
)

// LiveLogger prints log lines above a block of footers that is redrawn in
// place, one footer per concurrent task.
type LiveLogger struct {
	out     io.Writer
	width   int
	footers []string

	lock sync.Mutex
}

var _ Logger = &LiveLogger{}

// NewLiveLogger wraps footers at width visible runes. Zero disables wrapping.
func NewLiveLogger(out io.Writer, width int) *LiveLogger {
	fmt.Fprint(out, "\033[B")
	l := &LiveLogger{out: out, width: width, footers: []string{}}
	l.printLive(Empty[string](), "")
	return l
}

type footerLogger struct {
	logger *LiveLogger
	i      int
}

// FooterLogger replaces footer i with each message it receives.
func (l *LiveLogger) FooterLogger(i int) Logger {
	return &footerLogger{logger: l, i: i}
}

func (l *footerLogger) Println(v ...any) {
	l.logger.SetFooter(fmt.Sprintln(v...), l.i)
}
func (l *footerLogger) Printf(format string, v ...any) {
	l.logger.SetFooter(fmt.Sprintf(format, v...), l.i)
}
func (l *footerLogger) Print(v ...any) {
	l.logger.SetFooter(fmt.Sprint(v...), l.i)
}

func (l *LiveLogger) footerString() string {
	return strings.Join(l.footers, "\n")
}

func (l *LiveLogger) FooterString() string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.footerString()
}

func (l *LiveLogger) Println(v ...any) {
	l.Print(fmt.Sprintln(v...))
}

func (l *LiveLogger) Printf(format string, v ...any) {
	l.Print(fmt.Sprintf(format, v...))
}

func (l *LiveLogger) Print(v ...any) {
	l.lock.Lock()
	defer l.lock.Unlock()

	footer := l.footerString()
	l.printLive(Some(fmt.Sprint(v...)), footer)
}

func runeCountIgnoringAnsi(s string) int {
	return utf8.RuneCountInString(stripansi.Strip(s))
}

// wrapLine breaks s between words so no line is wider than width, not
// counting color codes.
func wrapLine(s string, width int) string {
	if runeCountIgnoringAnsi(s) <= width {
		return s
	}

	lines := []string{}
	line := []string{}
	for _, word := range strings.Split(s, " ") {
		joinedLine := strings.Join(line, " ")
		if runeCountIgnoringAnsi(joinedLine)+runeCountIgnoringAnsi(word)+1 > width && len(line) != 0 {
			lines = append(lines, joinedLine)
			line = []string{word}
		} else {
			line = append(line, word)
		}
	}
	lines = append(lines, strings.Join(line, " "))
	return strings.Join(MapSlice(lines, strings.TrimSpace), "\n")
}

func (l *LiveLogger) SetFooter(s string, index int) {
	s = strings.TrimSpace(s)
	if l.width > 0 {
		s = wrapLine(s, l.width)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	previousFooter := l.footerString()
	for len(l.footers) <= index {
		l.footers = append(l.footers, "")
	}
	l.footers[index] = s

	l.printLive(Empty[string](), previousFooter)
}

// printLive moves the cursor to the top of the previous footer, clears the
// rest of the screen, prints output and redraws the footer below it.
func (l *LiveLogger) printLive(output Optional[string], previousFooter string) {
	for i := 0; i < len(strings.Split(previousFooter, "\n")); i++ {
		fmt.Fprint(l.out, "\033[A")
	}
	fmt.Fprint(l.out, "\033[J")

	if output.HasValue() {
		fmt.Fprint(l.out, output.Value())
	}
	fmt.Fprintln(l.out, l.footerString())
}
