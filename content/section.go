package content

// Section is content grouped under a single heading, or lead-in material
// found before the first heading.
type Section struct {
	Title  string
	Units  []Unit
	LeadIn bool
}

// Card is a single rendered panel.
type Card struct {
	Title string
	Units []Unit
	// set for second card of a split section
	Continuation bool
}

// Images returns number of image units on the card.
func (c *Card) Images() int {
	var n int
	for _, u := range c.Units {
		if u.IsImage() {
			n++
		}
	}
	return n
}

// TextLen returns total number of characters in text units.
func (c *Card) TextLen() int {
	var n int
	for _, u := range c.Units {
		n += u.Len()
	}
	return n
}

// Flatten concatenates units of all cards in order.
func Flatten(cards []Card) []Unit {
	var out []Unit
	for _, c := range cards {
		out = append(out, c.Units...)
	}
	return out
}
