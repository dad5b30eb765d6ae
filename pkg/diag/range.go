package diag

// Ranger wraps the Range method.
type Ranger interface {
	Range() Ranging
}

// Ranging is a half-open byte range [From, To) in a source. Structs embed it
// to satisfy Ranger.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at p.
func PointRanging(p int) Ranging { return Ranging{p, p} }

// Shower wraps the Show method.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}
