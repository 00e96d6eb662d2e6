package internal

// Options controls template lexing behavior. The zero value matches the
// Jinja defaults: no block trimming, no line stripping, and the final
// newline of the source is removed before lexing.
type Options struct {
	// TrimBlocks removes the first newline after a block tag or comment.
	TrimBlocks bool
	// LstripBlocks strips whitespace from the start of a line to a block tag.
	LstripBlocks bool
	// KeepTrailingNewline preserves the trailing newline of the source.
	KeepTrailingNewline bool
}
