package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phobologic/phpdoccheck/internal/model"
)

// Progress prints one character per file: F for errors, W for warnings
// only, S for files that could not be checked, "." otherwise. Each row
// holds perLine files and ends with a processed/total counter. Not safe for
// concurrent use.
type Progress struct {
	w         io.Writer
	perLine   int
	total     int
	processed int
	inLine    int
}

// NewProgress writes a header to w and returns a Progress for total files.
func NewProgress(w io.Writer, perLine, total int) *Progress {
	if perLine < 1 {
		perLine = 1
	}
	_, _ = fmt.Fprint(w, "phpdoccheck\n\n")
	return &Progress{w: w, perLine: perLine, total: total}
}

// Add records the result of one file.
func (p *Progress) Add(res model.Result) {
	mark := "."
	switch {
	case len(res.Errors) > 0:
		mark = "F"
	case len(res.Warnings) > 0:
		mark = "W"
	}
	p.mark(mark)
}

// Skip records a file that was not checked.
func (p *Progress) Skip() {
	p.mark("S")
}

func (p *Progress) mark(m string) {
	p.processed++
	p.inLine++
	_, _ = io.WriteString(p.w, m)

	if p.inLine == p.perLine || p.processed == p.total {
		p.endLine()
	}
}

func (p *Progress) endLine() {
	width := len(strconv.Itoa(p.total))
	pct := 0
	if p.total > 0 {
		pct = 100 * p.processed / p.total
	}
	_, _ = fmt.Fprintf(p.w, "%s  %*d/%d (%d%%)\n",
		strings.Repeat(" ", p.perLine-p.inLine), width, p.processed, p.total, pct)
	p.inLine = 0
}
