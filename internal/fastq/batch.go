package fastq

// Batch is a bounded buffer of reads collected between dispatch rounds.
type Batch struct {
	reads []Read
}

// NewBatch returns an empty batch holding at most size reads.
func NewBatch(size int) *Batch {
	if size < 1 {
		size = 1
	}
	return &Batch{reads: make([]Read, 0, size)}
}

// Add appends r and reports whether the batch is now full.
func (b *Batch) Add(r Read) (full bool) {
	b.reads = append(b.reads, r)
	return len(b.reads) == cap(b.reads)
}

// Reads is the batch content in arrival order.
func (b *Batch) Reads() []Read { return b.reads }

// Len is the number of buffered reads.
func (b *Batch) Len() int { return len(b.reads) }

// Reset empties the batch, keeping its capacity. Buffered reads are released.
func (b *Batch) Reset() {
	for i := range b.reads {
		b.reads[i] = Read{}
	}
	b.reads = b.reads[:0]
}
