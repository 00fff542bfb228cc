package domain

// Collection names of the solutions database.
const (
	DefaultDatabase = "solutions"

	CollectionSolutionReviews = "solutionReviews"
	CollectionLookups         = "lookups"
	CollectionQueries         = "queries"
)

// CaseInsensitiveEnglish matches strings regardless of case under English rules.
var CaseInsensitiveEnglish = Collation{Locale: "en", Strength: StrengthSecondary}

// SolutionsLayout returns the collections of the solutions database in creation order.
//
// A fresh slice is returned on every call so callers may modify it freely.
func SolutionsLayout() []CollectionSpec {
	return []CollectionSpec{
		{Name: CollectionSolutionReviews, Collation: CaseInsensitiveEnglish},
		{Name: CollectionLookups, Collation: CaseInsensitiveEnglish},
		{Name: CollectionQueries, Collation: CaseInsensitiveEnglish},
	}
}
