package core

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		name     string
		primary  string
		sub      string
		custom   string
		want     string
	}{
		// Branch 1: primary "Other" takes the custom text wholesale.
		{"other with custom", "Other", "", "Flood damage", "Flood damage"},
		{"other without custom", "Other", "", "", "Other"},
		{"other ignores subcategory", "Other", "Medical bills", "Flood damage", "Flood damage"},

		// Branch 2: concrete subcategory composes with the primary.
		{"concrete subcategory", "Property Damage", "Vehicle repair/replacement", "", "Property Damage - Vehicle repair/replacement"},
		{"concrete subcategory ignores custom", "Property Damage", "Rental vehicle costs", "unused", "Property Damage - Rental vehicle costs"},

		// Branch 3: subcategory "Other" uses custom text when present.
		{"sub other with custom", "Medical & Health-Related", "Other", "Chiropractor", "Medical & Health-Related - Chiropractor"},
		{"sub other without custom", "Medical & Health-Related", "Other", "", "Medical & Health-Related - Other"},

		// Branch 4: bare primary.
		{"no subcategory", "Punitive Damages", "", "", "Punitive Damages"},
		{"placeholder subcategory", "Property Damage", "Select...", "", "Property Damage"},
		{"placeholder ignores custom", "Property Damage", "Select...", "unused", "Property Damage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeCategory(tc.primary, tc.sub, tc.custom); got != tc.want {
				t.Fatalf("NormalizeCategory(%q, %q, %q) = %q, want %q",
					tc.primary, tc.sub, tc.custom, got, tc.want)
			}
		})
	}
}

func TestCategoriesClosedSet(t *testing.T) {
	if len(Categories) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(Categories))
	}
	if Categories[len(Categories)-1] != CategoryOther {
		t.Errorf("last category = %q, want %q", Categories[len(Categories)-1], CategoryOther)
	}
	for primary, subs := range Subcategories {
		if !IsKnownCategory(primary) {
			t.Errorf("subcategory map references unknown category %q", primary)
		}
		if len(subs) == 0 || subs[len(subs)-1] != CategoryOther {
			t.Errorf("subcategories of %q should end in %q", primary, CategoryOther)
		}
	}
}
