package pipeline

import "bulk_bench/models"

// Batcher buffers records until a fixed size is reached. The buffer is
// reused across flushes, so consumers must not keep the slice returned by
// Records after Reset.
type Batcher struct {
	size int
	buf  []models.Record
}

func NewBatcher(size int) *Batcher {
	if size < 1 {
		size = 1
	}
	return &Batcher{size: size, buf: make([]models.Record, 0, size)}
}

// Add appends rec and reports whether the batch is full.
func (b *Batcher) Add(rec models.Record) bool {
	b.buf = append(b.buf, rec)
	return len(b.buf) >= b.size
}

func (b *Batcher) Records() []models.Record {
	return b.buf
}

func (b *Batcher) Len() int {
	return len(b.buf)
}

func (b *Batcher) Reset() {
	clear(b.buf)
	b.buf = b.buf[:0]
}
