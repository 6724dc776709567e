package fastq

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Reader streams reads from a FASTQ file, plain or compressed.
type Reader struct {
	file string
	fq   *fastx.Reader
}

// Open starts reading file. "-" reads stdin.
func Open(file string) (*Reader, error) {
	fq, err := fastx.NewDefaultReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	return &Reader{file: file, fq: fq}, nil
}

// Next returns the next read, or io.EOF once the stream is exhausted. The
// returned Read owns its memory.
func (r *Reader) Next() (Read, error) {
	record, err := r.fq.Read()
	if err != nil {
		if err == io.EOF {
			return Read{}, io.EOF
		}
		return Read{}, errors.Wrapf(err, "read %s", r.file)
	}
	id, seq, qual := record.ID, record.Seq.Seq, record.Seq.Qual
	if len(qual) != len(seq) {
		return Read{}, errors.Errorf("%s: record %s is not FASTQ (%d bases, %d qualities)",
			r.file, id, len(seq), len(qual))
	}

	// the parser reuses its buffers between records
	data := make([]byte, 0, len(id)+len(seq)+len(qual))
	data = append(data, id...)
	data = append(data, seq...)
	data = append(data, qual...)
	n := len(id)
	return Read{
		ID:   data[:n:n],
		Seq:  data[n : n+len(seq) : n+len(seq)],
		Qual: data[n+len(seq):],
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() {
	r.fq.Close()
}
