package domain

import "fmt"

// Strength levels for locale-aware comparison.
const (
	StrengthPrimary   = 1 // base characters only
	StrengthSecondary = 2 // base characters and diacritics, case ignored
	StrengthTertiary  = 3 // base characters, diacritics and case
)

// Collation is the comparison policy attached to a collection at creation time.
type Collation struct {
	Locale   string
	Strength int
}

// Equal reports whether both collations carry the same locale and strength.
// A server expands the remaining collation fields to locale defaults, so only
// the fields this tool sets are compared.
func (c Collation) Equal(other Collation) bool {
	return c.Locale == other.Locale && c.Strength == other.Strength
}

func (c Collation) String() string {
	return fmt.Sprintf("%s/%d", c.Locale, c.Strength)
}

// Validate checks that the collation can be sent to a server.
func (c Collation) Validate() error {
	if c.Locale == "" {
		return fmt.Errorf("%w: collation locale is empty", ErrInvalidCollation)
	}
	if c.Strength < 1 || c.Strength > 5 {
		return fmt.Errorf("%w: collation strength %d out of range 1-5", ErrInvalidCollation, c.Strength)
	}
	return nil
}
