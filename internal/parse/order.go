package parse

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bakeimport/internal"
)

// OrderNumberFunc supplies synthetic order numbers. Production uses
// DefaultOrderNumber; tests inject a deterministic stub.
type OrderNumberFunc func() string

func DefaultOrderNumber() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}

// ParseOrders converts flat order lines into orders grouped by customer and
// delivery date. Lines sharing a (customer, date) pair accumulate line items
// on one order, in contribution order; orders come back in first-contribution
// order. Decode failures skip the line, they are never defaulted.
func ParseOrders(text, bakeryID string, next OrderNumberFunc) ([]internal.ParsedOrder, []internal.LineError) {
	if next == nil {
		next = DefaultOrderNumber
	}

	byKey := map[string]*internal.ParsedOrder{}
	keys := []string{}
	errs := []internal.LineError{}

	forEachLine(text, func(lineNo int, line string) {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "invalid format"))
			return
		}

		productNo, err := strconv.Atoi(fields[0])
		if err != nil {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "product id is not numeric"))
			return
		}

		// fields[1] packs the customer number at character offsets 4-8.
		composite := fields[1]
		if len(composite) < 9 {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "composite field too short"))
			return
		}
		customerNo, err := strconv.Atoi(composite[4:9])
		if err != nil {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "customer id is not numeric"))
			return
		}

		qty, err := strconv.Atoi(fields[2])
		if err != nil {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "quantity is not numeric"))
			return
		}

		// fields[3] is a POS-internal code the importer does not interpret.

		date := fields[4]
		if len(date) != 8 {
			errs = append(errs, lineErr(internal.FileOrders, lineNo, line, "date must be 8 characters"))
			return
		}
		deliveryDate := date[0:4] + "-" + date[4:6] + "-" + date[6:8]

		customerID := strconv.Itoa(customerNo)
		key := customerID + "|" + deliveryDate
		order, ok := byKey[key]
		if !ok {
			order = &internal.ParsedOrder{
				OrderNumber:        next(),
				DeliveryDate:       deliveryDate,
				Status:             internal.OrderStatusPending,
				CustomerOriginalID: customerID,
				BakeryID:           bakeryID,
			}
			byKey[key] = order
			keys = append(keys, key)
		}
		order.Lines = append(order.Lines, internal.OrderLine{
			ProductOriginalID: strconv.Itoa(productNo),
			Quantity:          qty,
			PackingStatus:     internal.PackingStatusPending,
		})
	})

	orders := make([]internal.ParsedOrder, 0, len(keys))
	for _, key := range keys {
		orders = append(orders, *byKey[key])
	}
	return orders, errs
}
