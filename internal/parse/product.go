package parse

import (
	"regexp"
	"strings"

	"bakeimport/internal"
)

// Trailing price/quantity codes in the product master start at the first
// token with four or more leading digits; everything before it is the name.
var metadataToken = regexp.MustCompile(`^\d{4}`)

// ParseProducts converts product-master lines into products for one bakery.
// Malformed lines are skipped and reported; they never abort the file.
func ParseProducts(text, bakeryID string) ([]internal.ParsedProduct, []internal.LineError) {
	products := []internal.ParsedProduct{}
	errs := []internal.LineError{}

	forEachLine(text, func(lineNo int, line string) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			errs = append(errs, lineErr(internal.FileProducts, lineNo, line, "too few fields"))
			return
		}

		end := len(fields)
		for i := 1; i < len(fields); i++ {
			if metadataToken.MatchString(fields[i]) {
				end = i
				break
			}
		}
		name := strings.Join(fields[1:end], " ")
		if name == "" {
			errs = append(errs, lineErr(internal.FileProducts, lineNo, line, "empty product name"))
			return
		}

		products = append(products, internal.ParsedProduct{
			OriginalID: NormalizeID(fields[0]),
			Name:       name,
			Category:   internal.CategoryImported,
			IsActive:   true,
			BakeryID:   bakeryID,
		})
	})

	return products, errs
}
