package ingest

import "strings"

// chunkText splits extracted text into fixed-size character windows.
// Windows whose trimmed content is shorter than minChars are discarded;
// near-empty windows embed poorly and pollute retrieval.
func chunkText(text string, size, minChars int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)

	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		window := string(runes[start:end])
		if len(strings.TrimSpace(window)) < minChars {
			continue
		}

		chunks = append(chunks, window)
	}

	return chunks
}
