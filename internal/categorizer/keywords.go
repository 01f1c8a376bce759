package categorizer

// defaultTaxonomy maps each procurement category to its keyword set.
// Keywords may appear under more than one category; scoring discounts a
// shared keyword by the number of categories that claim it.
func defaultTaxonomy() map[string][]string {
	return map[string][]string{
		"IT Software": {
			"software", "license", "saas", "subscription", "cloud",
			"hosting", "platform", "api",
		},
		"IT Hardware": {
			"laptop", "server", "monitor", "hardware", "keyboard",
			"printer", "router", "workstation",
		},
		"Office Supplies": {
			"paper", "stationery", "toner", "pens", "folders",
			"envelopes", "supplies", "printer",
		},
		"Professional Services": {
			"consulting", "advisory", "legal", "audit", "accounting",
			"recruitment", "training", "service",
		},
		"Travel": {
			"airline", "flight", "hotel", "lodging", "rental",
			"taxi", "mileage", "travel",
		},
		"Marketing": {
			"advertising", "campaign", "branding", "media", "sponsorship",
			"design", "promotion", "agency",
		},
		"Facilities": {
			"cleaning", "maintenance", "repair", "security", "landscaping",
			"janitorial", "hvac", "service",
		},
		"Logistics": {
			"freight", "shipping", "courier", "warehouse", "transport",
			"customs", "pallet", "delivery",
		},
		"Raw Materials": {
			"steel", "aluminum", "resin", "lumber", "chemical",
			"fabric", "components", "packaging",
		},
		"Utilities": {
			"electricity", "water", "gas", "telecom", "internet",
			"energy", "broadband", "waste",
		},
	}
}

// stopwords excluded from category suggestion mining.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "their": {}, "there": {},
	"these": {}, "those": {}, "which": {}, "while": {}, "would": {},
	"other": {}, "invoice": {}, "payment": {}, "purchase": {}, "order": {},
	"monthly": {}, "annual": {}, "charge": {}, "total": {}, "vendor": {},
	"limited": {}, "company": {}, "corporation": {}, "incorporated": {},
	"group": {}, "services": {},
}
