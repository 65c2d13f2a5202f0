package mkbparser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Reporter prints the human status lines of a run
type Reporter struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	heading *color.Color
}

// NewReporter creates a reporter writing to out. mode is auto, on or off;
// auto colours only when out is a terminal and NO_COLOR is unset.
func NewReporter(out io.Writer, mode string) *Reporter {
	r := &Reporter{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		heading: color.New(color.FgCyan),
	}

	enable := colorEnabled(out, mode)
	for _, c := range []*color.Color{r.success, r.failure, r.heading} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func colorEnabled(out io.Writer, mode string) bool {
	switch strings.ToLower(mode) {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Section prints a "--- title ---" heading preceded by a blank line
func (r *Reporter) Section(title string) {
	fmt.Fprintf(r.out, "\n%s\n", r.heading.Sprintf("--- %s ---", title))
}

func (r *Reporter) Success(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", r.success.Sprint("[SUCCESS]"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Failure(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", r.failure.Sprint("[ERROR]"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
