package diag

import (
	"fmt"

	"mesozoic/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Kind returns the error category the diagnostic belongs to.
func (d Diagnostic) Kind() Kind {
	return d.Code.Kind()
}

// Error renders the diagnostic without resolving positions.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s at %s: %s", d.Kind(), d.Code.ID(), d.Primary, d.Message)
}
