package diagfmt

import (
	"mesozoic/internal/source"
)

// position is a resolved span; File is empty for spans without a file.
type position struct {
	File       string
	Start, End source.LineCol
	file       *source.File
}

func resolve(fs *source.FileSet, span source.Span, mode PathMode) position {
	if fs == nil || span.IsDummy() {
		return position{}
	}
	f, ok := fs.FileOf(span.Start)
	if !ok {
		return position{}
	}
	end := span.End
	if end < span.Start {
		end = span.Start
	}
	return position{
		File:  formatPath(f, fs, mode),
		Start: f.LineCol(span.Start),
		End:   f.LineCol(end),
		file:  f,
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
