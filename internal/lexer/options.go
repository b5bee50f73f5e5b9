package lexer

import (
	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// StrictOctal reports legacy octal literals and escapes as errors.
	StrictOctal bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// SetReporter swaps the diagnostic sink. The parser uses it to buffer lexer
// errors while it parses speculatively.
func (lx *Lexer) SetReporter(r diag.Reporter) diag.Reporter {
	prev := lx.opts.Reporter
	lx.opts.Reporter = r
	return prev
}
