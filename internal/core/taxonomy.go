package core

// CategoryOther is the free-text escape hatch at both taxonomy levels.
const CategoryOther = "Other"

// SubcategoryNone is the "not selected" sentinel the form submits when the
// user leaves the subcategory dropdown on its placeholder.
const SubcategoryNone = "Select..."

// Categories is the closed set of top-level damage categories, in the order
// the entry form presents them. The last entry is always "Other".
var Categories = []string{
	"Property Damage",
	"Economic/Financial Loss",
	"Medical & Health-Related",
	"Emotional & Psychological Damages",
	"Loss of Companionship or Consortium",
	"Punitive Damages",
	"Special Circumstances",
	"Legal & Administrative Costs",
	"Future Damages",
	"Miscellaneous",
	CategoryOther,
}

// Subcategories maps a primary category to its closed subcategory set.
// Categories absent from this map have no subcategory level.
var Subcategories = map[string][]string{
	"Property Damage": {
		"Vehicle repair/replacement", "Rental vehicle costs",
		"Damage to home or real estate", "Damage to personal belongings", CategoryOther,
	},
	"Economic/Financial Loss": {
		"Lost wages or income", "Loss of earning capacity", "Business interruption",
		"Out-of-pocket expenses", "Replacement costs", CategoryOther,
	},
	"Medical & Health-Related": {
		"Medical bills", "Medication costs", "Rehabilitation or physical therapy",
		"Mental health therapy", CategoryOther,
	},
	"Emotional & Psychological Damages": {
		"Pain and suffering", "Emotional distress", "Loss of enjoyment of life",
		"Grief and bereavement", CategoryOther,
	},
	"Special Circumstances": {
		"Pet loss and related costs", "Temporary housing costs",
		"Childcare expenses", "Travel expenses", CategoryOther,
	},
	"Legal & Administrative Costs": {
		"Attorney fees", "Court filing fees", "Expert witness fees", CategoryOther,
	},
	"Future Damages": {
		"Projected medical care", "Future therapy", "Long-term disability costs", CategoryOther,
	},
}

// IsKnownCategory reports whether primary is one of the closed top-level set.
func IsKnownCategory(primary string) bool {
	for _, c := range Categories {
		if c == primary {
			return true
		}
	}
	return false
}

// NormalizeCategory computes the single canonical category label stored on a
// record. Priority order, first match wins:
//
//  1. primary "Other": customText if non-empty, else the literal "Other".
//  2. a concrete subcategory selection: "primary - subcategory".
//  3. subcategory "Other": "primary - customText" when customText is
//     non-empty, else "primary - Other".
//  4. bare primary.
func NormalizeCategory(primary, subcategory, customText string) string {
	if primary == CategoryOther {
		if customText != "" {
			return customText
		}
		return CategoryOther
	}
	if subcategory != "" && subcategory != SubcategoryNone && subcategory != CategoryOther {
		return primary + " - " + subcategory
	}
	if subcategory == CategoryOther {
		if customText != "" {
			return primary + " - " + customText
		}
		return primary + " - " + CategoryOther
	}
	return primary
}
