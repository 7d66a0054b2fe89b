package metrics

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Progress prints a line each time the inserted-row count has moved at least
// every rows past the last printed count.
type Progress struct {
	out   io.Writer
	every int
	last  int
}

func NewProgress(out io.Writer, every int) *Progress {
	return &Progress{out: out, every: every}
}

// Update reports whether a line was printed for total.
func (p *Progress) Update(total int) bool {
	if p.every <= 0 || total-p.last < p.every {
		return false
	}
	fmt.Fprintf(p.out, "Inserted %s rows\n", humanize.Comma(int64(total)))
	p.last = total
	return true
}
