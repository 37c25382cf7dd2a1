package inventory

// FlushFunc receives a full or final batch of records. The slice is owned by
// the callee; the batch never touches it again after handing it over.
type FlushFunc[T any] func(records []T) error

// Batch buffers records for one sheet and flushes them through a FlushFunc
// once the size threshold is reached. The threshold only bounds memory and
// produces incremental output during long scans; it has no correctness
// meaning. Callers must call Flush once after the last Append to drain any
// remainder.
type Batch[T any] struct {
	threshold int
	records   []T
	flush     FlushFunc[T]
}

// NewBatch creates a batch that flushes every threshold records.
func NewBatch[T any](threshold int, flush FlushFunc[T]) *Batch[T] {
	return &Batch[T]{
		threshold: threshold,
		flush:     flush,
	}
}

// Append adds one record, flushing immediately when the buffer reaches the
// threshold.
func (b *Batch[T]) Append(record T) error {
	b.records = append(b.records, record)
	if len(b.records) >= b.threshold {
		return b.Flush()
	}
	return nil
}

// Flush hands any buffered records to the flush function and empties the
// buffer. Flushing an empty buffer is a no-op. The buffer is released, not
// reused: the flushed slice stays valid for the callee.
func (b *Batch[T]) Flush() error {
	if len(b.records) == 0 {
		return nil
	}
	records := b.records
	b.records = nil
	return b.flush(records)
}

// Len returns the number of buffered, not yet flushed records.
func (b *Batch[T]) Len() int {
	return len(b.records)
}
