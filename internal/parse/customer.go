package parse

import (
	"regexp"
	"strings"

	"bakeimport/internal"
)

// The POS emits two customer-master layouts. Labeled lines carry Norwegian
// field labels; standard lines separate fields with runs of four or more
// spaces.
var (
	reCustomerNo   = regexp.MustCompile(`kundenummer:\s*(\d+)`)
	reCustomerName = regexp.MustCompile(`Kundenanv:\s*(.+?)(?:\s+[A-ZÆØÅ][A-Za-zæøå]*:|$)`)
	reAddress      = regexp.MustCompile(`Adresse:\s*(.+?)(?:\s+Tlf:|$)`)
	rePhone        = regexp.MustCompile(`Tlf:\s*(\d+)`)
	reFieldRun     = regexp.MustCompile(` {4,}`)
)

// ParseCustomers converts customer-master lines into customers for one
// bakery. Layout is detected per line: labeled first, standard as fallback.
func ParseCustomers(text, bakeryID string) ([]internal.ParsedCustomer, []internal.LineError) {
	customers := []internal.ParsedCustomer{}
	errs := []internal.LineError{}

	forEachLine(text, func(lineNo int, line string) {
		var customer internal.ParsedCustomer
		var reason string
		if strings.Contains(line, "kundenummer:") || strings.Contains(line, "Kundenanv:") {
			customer, reason = parseLabeledCustomer(line)
		} else {
			customer, reason = parseStandardCustomer(line)
		}
		if reason != "" {
			errs = append(errs, lineErr(internal.FileCustomers, lineNo, line, reason))
			return
		}

		customer.Status = internal.CustomerStatusActive
		customer.BakeryID = bakeryID
		customers = append(customers, customer)
	})

	return customers, errs
}

func parseLabeledCustomer(line string) (internal.ParsedCustomer, string) {
	idMatch := reCustomerNo.FindStringSubmatch(line)
	nameMatch := reCustomerName.FindStringSubmatch(line)
	if idMatch == nil || nameMatch == nil {
		return internal.ParsedCustomer{}, "labeled line missing customer number or name"
	}
	name := strings.TrimSpace(nameMatch[1])
	if name == "" {
		return internal.ParsedCustomer{}, "empty customer name"
	}

	customer := internal.ParsedCustomer{
		OriginalID: NormalizeID(idMatch[1]),
		Name:       name,
	}
	if m := reAddress.FindStringSubmatch(line); m != nil {
		if address := strings.TrimSpace(m[1]); address != "" {
			customer.Address = internal.StringPtr(address)
		}
	}
	if m := rePhone.FindStringSubmatch(line); m != nil {
		customer.Phone = internal.StringPtr(m[1])
	}
	return customer, ""
}

func parseStandardCustomer(line string) (internal.ParsedCustomer, string) {
	fields := reFieldRun.Split(line, -1)
	if len(fields) < 2 {
		return internal.ParsedCustomer{}, "too few fields"
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return internal.ParsedCustomer{}, "empty customer name"
	}

	customer := internal.ParsedCustomer{
		OriginalID: NormalizeID(strings.TrimSpace(fields[0])),
		Name:       name,
	}
	if len(fields) >= 3 {
		if address := strings.TrimSpace(fields[2]); address != "" {
			customer.Address = internal.StringPtr(address)
		}
	}
	return customer, ""
}
