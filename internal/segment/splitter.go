package segment

import "strings"

// Separator boundaries tried from coarsest to finest. The Unicode entries
// cover CJK punctuation so chunk boundaries stay natural for non-Latin
// documents; the trailing empty string forces a character-level split as
// the last resort.
var separators = []string{
	"\n\n",
	"\n",
	".",
	",",
	" ",
	"​", // zero-width space
	"，", // fullwidth comma
	"、", // ideographic comma
	"．", // fullwidth full stop
	"。", // ideographic full stop
	"",
}

// OverlapTokens returns the overlap budget carried between adjacent
// chunks for a given chunk size: floor(chunkSize * 0.15).
func OverlapTokens(chunkSize int) int {
	return chunkSize * 15 / 100
}

// Split partitions text into an ordered sequence of trimmed chunks whose
// counter length stays within chunkSize where any separator allows it,
// carrying OverlapTokens(chunkSize) of trailing context into each next
// chunk. A run that no separator can break is emitted as-is even when it
// exceeds the budget. Output is fully deterministic for fixed inputs.
func Split(text string, chunkSize int, counter TokenCounter) []string {
	if text == "" {
		return nil
	}
	return splitRecursive(text, separators, chunkSize, OverlapTokens(chunkSize), counter)
}

func splitRecursive(text string, seps []string, chunkSize, overlap int, counter TokenCounter) []string {
	// Pick the coarsest separator that occurs in the text; "" always does.
	sep := ""
	var finer []string
	for i, s := range seps {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			finer = seps[i+1:]
			break
		}
	}

	pieces := splitKeepingSeparator(text, sep)

	var out []string
	var fitting []string
	for _, piece := range pieces {
		if counter(piece) <= chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, mergePieces(fitting, chunkSize, overlap, counter)...)
			fitting = nil
		}
		if len(finer) == 0 {
			// Nothing left to split on; oversized beats lost.
			out = append(out, piece)
		} else {
			out = append(out, splitRecursive(piece, finer, chunkSize, overlap, counter)...)
		}
	}
	if len(fitting) > 0 {
		out = append(out, mergePieces(fitting, chunkSize, overlap, counter)...)
	}
	return out
}

// splitKeepingSeparator splits on sep, attaching the separator to the
// start of the following piece so that re-concatenating pieces yields the
// original text. sep == "" splits into individual runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// mergePieces greedily joins consecutive pieces up to the token budget.
// When a chunk is flushed, trailing pieces totalling at most the overlap
// budget are carried over into the next chunk's head.
func mergePieces(pieces []string, chunkSize, overlap int, counter TokenCounter) []string {
	var chunks []string
	var window []string
	total := 0

	for _, p := range pieces {
		n := counter(p)
		if total+n > chunkSize && len(window) > 0 {
			if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
				chunks = append(chunks, c)
			}
			// Slide the window forward until the carried tail fits the
			// overlap budget and the incoming piece has room.
			for total > overlap || (total+n > chunkSize && total > 0) {
				total -= counter(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += n
	}
	if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}
