package hygiene

import "fmt"

// Mark tags an identifier introduced by a transform. The zero Mark belongs to
// identifiers written by the user.
type Mark uint32

// NoMark is the mark of source identifiers.
const NoMark Mark = 0

func (m Mark) IsValid() bool { return m != NoMark }

func (m Mark) String() string {
	if m == NoMark {
		return "#user"
	}
	return fmt.Sprintf("#%d", uint32(m))
}

// Context issues fresh marks for one transpile call. It starts from a fresh
// root, so marks from two calls never need to be compared.
type Context struct {
	next  Mark
	names map[Mark]string // желаемое имя для каждой метки
}

// NewContext returns a context with no marks issued.
func NewContext() *Context {
	return &Context{next: 1, names: make(map[Mark]string)}
}

// Fresh issues a new mark for an identifier that wants to be called name.
func (c *Context) Fresh(name string) Mark {
	m := c.next
	c.next++
	c.names[m] = name
	return m
}

// Name returns the desired name recorded for m.
func (c *Context) Name(m Mark) string {
	return c.names[m]
}

// Issued returns how many marks the context handed out.
func (c *Context) Issued() int {
	return int(c.next - 1)
}
