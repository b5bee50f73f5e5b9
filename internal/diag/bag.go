package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics. A non-positive max
// means "use the default limit".
func NewBag(max int) *Bag {
	if max <= 0 || max > 0xFFFF {
		max = DefaultMaxDiagnostics
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   uint16(max),
	}
}

// DefaultMaxDiagnostics is the limit used when the caller gives none.
const DefaultMaxDiagnostics = 100

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Errors are always admitted when the bag holds no error yet, so a full bag of
// warnings can never hide a failure.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) && (d.Severity < SevError || b.HasErrors()) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// Full reports whether the limit is reached.
func (b *Bag) Full() bool {
	return len(b.items) >= int(b.max)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Errors returns a copy of the error-severity diagnostics.
func (b *Bag) Errors() []Diagnostic {
	return b.filter(func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Warnings returns a copy of the diagnostics below error severity.
func (b *Bag) Warnings() []Diagnostic {
	return b.filter(func(d Diagnostic) bool { return d.Severity < SevError })
}

func (b *Bag) filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) && newTotal <= 0xFFFF {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
