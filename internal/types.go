package internal

type ImportFile string

const (
	FileProducts  ImportFile = "products"
	FileCustomers ImportFile = "customers"
	FileOrders    ImportFile = "orders"
)

const (
	// CategoryImported marks product rows that came from a legacy POS export
	// rather than being created in the app.
	CategoryImported = "Imported"

	CustomerStatusActive = "active"
	OrderStatusPending   = "pending"
	PackingStatusPending = "pending"
)

type ParsedProduct struct {
	OriginalID string
	Name       string
	Category   string
	IsActive   bool
	BakeryID   string
}

type ParsedCustomer struct {
	OriginalID    string
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Status        string
	BakeryID      string
}

type OrderLine struct {
	ProductOriginalID string
	Quantity          int
	PackingStatus     string
}

type ParsedOrder struct {
	OrderNumber        string
	DeliveryDate       string
	Status             string
	CustomerOriginalID string
	BakeryID           string
	Lines              []OrderLine
}

// LineError is a per-line parse failure. Parsers never fail a whole file;
// they collect these and keep going.
type LineError struct {
	File   ImportFile
	LineNo int
	Line   string
	Reason string
}

func StringPtr(v string) *string { return &v }
