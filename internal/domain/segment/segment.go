// Package segment splits page text into fixed-size overlapping windows.
package segment

import "fmt"

// Defaults for the chunking window; config and the embeddable client fall back to them.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 128
)

// Segmenter cuts text into windows of at most chunkSize characters,
// each starting chunkSize-overlap characters after the previous one.
// Characters are Unicode code points, so multi-byte text is never split mid-rune.
type Segmenter struct {
	chunkSize int
	overlap   int
}

// New validates the window parameters: chunkSize > 0 and 0 <= overlap < chunkSize.
func New(chunkSize, overlap int) (*Segmenter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", chunkSize, overlap)
	}
	return &Segmenter{chunkSize: chunkSize, overlap: overlap}, nil
}

// MustNew calls New and panics on error.
func MustNew(chunkSize, overlap int) *Segmenter {
	s, err := New(chunkSize, overlap)
	if err != nil {
		panic(err)
	}
	return s
}

// ChunkSize returns the maximum window length.
func (s *Segmenter) ChunkSize() int { return s.chunkSize }

// Overlap returns the number of characters shared by consecutive windows.
func (s *Segmenter) Overlap() int { return s.overlap }

// Split returns the windows in order. Empty text yields no chunks.
// The last window ends exactly at the end of the text; no empty trailing window is produced.
func (s *Segmenter) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	stride := s.chunkSize - s.overlap
	chunks := make([]string, 0, (n+stride-1)/stride)

	for start := 0; ; start += stride {
		end := min(start+s.chunkSize, n)
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
	}

	return chunks
}
