package domain

import (
	"fmt"
	"sort"
)

// Kind identifies which domain session a booking unlocks.
type Kind string

const (
	KindService Kind = "service"
	KindWash    Kind = "wash"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindService || k == KindWash
}

// TypeField is the request field carrying the subtype, e.g. "washType".
func (k Kind) TypeField() string {
	return string(k) + "Type"
}

// ResourcePath is the gated resource a booking of this kind pays for.
func (k Kind) ResourcePath(subtype string) string {
	return fmt.Sprintf("/api/v1/%s/start?type=%s", k, subtype)
}

const (
	ServiceOilChange    = "oil_change"
	ServiceTireRotation = "tire_rotation"
	ServiceBrakeService = "brake_service"
	ServiceInspection   = "inspection"
	ServiceOther        = "other"

	WashBasic    = "basic"
	WashStandard = "standard"
	WashPremium  = "premium"
	WashDeluxe   = "deluxe"
)

// prices are in atomic units of the settlement asset.
var prices = map[Kind]map[string]int64{
	KindService: {
		ServiceOilChange:    Units(45),
		ServiceTireRotation: Units(25),
		ServiceBrakeService: Units(150),
		ServiceInspection:   Units(35),
		ServiceOther:        Units(50),
	},
	KindWash: {
		WashBasic:    Units(5),
		WashStandard: Units(10),
		WashPremium:  Units(18),
		WashDeluxe:   Units(25),
	},
}

var fallbackSubtype = map[Kind]string{
	KindService: ServiceOther,
	KindWash:    WashBasic,
}

// ResolveSubtype maps a requested subtype onto the catalog. Unknown subtypes
// resolve to the kind's default; fellBack reports when that happened.
func ResolveSubtype(kind Kind, subtype string) (resolved string, fellBack bool) {
	table, ok := prices[kind]
	if !ok {
		return subtype, false
	}
	if _, ok := table[subtype]; ok {
		return subtype, false
	}
	return fallbackSubtype[kind], true
}

// KnownSubtype reports whether subtype is listed for kind.
func KnownSubtype(kind Kind, subtype string) bool {
	_, ok := prices[kind][subtype]
	return ok
}

// PriceOf returns the price in atomic units. Total over the enumeration:
// unknown subtypes are priced as the kind's default subtype.
func PriceOf(kind Kind, subtype string) int64 {
	resolved, _ := ResolveSubtype(kind, subtype)
	return prices[kind][resolved]
}

// CatalogEntry is one priced subtype.
type CatalogEntry struct {
	Kind    Kind   `json:"kind"`
	Subtype string `json:"subtype"`
	Price   string `json:"price"`
	Amount  int64  `json:"amount"`
	Default bool   `json:"default"`
}

// Catalog lists every priced subtype, ordered by kind then price.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, 9)
	for kind, table := range prices {
		for subtype, amount := range table {
			entries = append(entries, CatalogEntry{
				Kind:    kind,
				Subtype: subtype,
				Price:   FormatAmount(amount),
				Amount:  amount,
				Default: fallbackSubtype[kind] == subtype,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount < entries[j].Amount
		}
		return entries[i].Subtype < entries[j].Subtype
	})
	return entries
}

// Subtypes returns the known subtypes of kind in catalog order.
func Subtypes(kind Kind) []string {
	var out []string
	for _, e := range Catalog() {
		if e.Kind == kind {
			out = append(out, e.Subtype)
		}
	}
	return out
}
