package services

// TranscriptSegmenter attributes transcript text to questions.
type TranscriptSegmenter interface {
	Segment(transcript string, n int) []string
}

type proportionalSegmenter struct{}

// NewTranscriptSegmenter splits by character count into equal parts. It
// knows nothing about speech timing or pauses, so uneven answers are
// misattributed across question boundaries.
func NewTranscriptSegmenter() TranscriptSegmenter {
	return &proportionalSegmenter{}
}

// Segment implements TranscriptSegmenter. The n parts are contiguous, in
// order, and concatenate back to transcript exactly; the last part takes
// the remainder. n < 1 is treated as 1.
func (s *proportionalSegmenter) Segment(transcript string, n int) []string {
	if n < 1 {
		n = 1
	}
	segments := make([]string, n)
	if transcript == "" {
		return segments
	}

	runes := []rune(transcript)
	size := len(runes) / n
	for i := 0; i < n; i++ {
		start := i * size
		end := start + size
		if i == n-1 {
			end = len(runes)
		}
		segments[i] = string(runes[start:end])
	}
	return segments
}
