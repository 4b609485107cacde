package dataservice

import (
	"strconv"
	"strings"

	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// Form is a flattened multipart payload: one string value per field, the way
// form entries come off the wire. Listing create/update accept it so callers
// can hand over form submissions without building a typed struct first.
type Form map[string]string

// has reports whether the entry is present and non-empty. Sparse updates only
// touch fields that pass this check.
func (f Form) has(key string) bool {
	return strings.TrimSpace(f[key]) != ""
}

func (f Form) bool(key string) bool {
	return f[key] == "true"
}

func (f Form) float(key string) float64 {
	n, _ := strconv.ParseFloat(strings.TrimSpace(f[key]), 64)
	return n
}

// images splits a comma-separated image list. Multipart file parts are
// uploaded separately; mock mode only carries their resulting URLs.
func (f Form) images() []string {
	parts := strings.Split(f["images"], ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// applyToListing copies form entries onto a listing with type coercion:
// vaccinated from the strings "true"/"false" to bool, prices to numbers.
// When sparse is true only present, non-empty entries overwrite; absent or
// empty fields are left unchanged.
func (f Form) applyToListing(l *models.Listing, sparse bool) {
	set := func(key string, apply func()) {
		if !sparse || f.has(key) {
			apply()
		}
	}

	set("title", func() { l.Title = f["title"] })
	set("description", func() { l.Description = f["description"] })
	set("category", func() { l.Category = f["category"] })
	set("unit", func() { l.Unit = f["unit"] })
	set("wilaya", func() { l.Wilaya = f["wilaya"] })
	set("commune", func() { l.Commune = f["commune"] })
	set("breedingDate", func() { l.BreedingDate = f["breedingDate"] })
	set("preparationDate", func() { l.PreparationDate = f["preparationDate"] })
	set("images", func() { l.Images = f.images() })
	set("status", func() { l.Status = models.ListingStatus(f["status"]) })
	set("vaccinated", func() { l.Vaccinated = f.bool("vaccinated") })

	// Older forms post "price", newer ones "pricePerKg"; both land on the
	// same field.
	if f.has("pricePerKg") {
		l.PricePerKg = f.float("pricePerKg")
	} else if f.has("price") {
		l.PricePerKg = f.float("price")
	} else if !sparse {
		l.PricePerKg = 0
	}
}
