package hygiene

import "strconv"

// Resolve assigns a final spelling to every issued mark. taken holds the names
// of all unmarked identifiers in the unit. Marks are resolved in issue order;
// a mark whose desired name is taken, or already given to an earlier mark,
// gets the first free numeric suffix (_jsx → _jsx1 → _jsx2 ...).
func (c *Context) Resolve(taken map[string]bool) map[Mark]string {
	out := make(map[Mark]string, c.Issued())
	used := make(map[string]bool, len(taken)+c.Issued())
	for name := range taken {
		used[name] = true
	}
	for m := Mark(1); m < c.next; m++ {
		want := c.names[m]
		name := want
		for i := 1; used[name]; i++ {
			name = want + strconv.Itoa(i)
		}
		used[name] = true
		out[m] = name
	}
	return out
}
