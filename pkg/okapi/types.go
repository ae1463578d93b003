package okapi

import "time"

// User represents a patron or service account record.
type User struct {
	ID          string        `json:"id"                        yaml:"id"`
	Username    string        `json:"username"                  yaml:"username"`
	Barcode     string        `json:"barcode,omitempty"         yaml:"barcode,omitempty"`
	Active      bool          `json:"active"                    yaml:"active"`
	PatronGroup string        `json:"patronGroup,omitempty"     yaml:"patronGroup,omitempty"`
	Personal    *UserPersonal `json:"personal,omitempty"        yaml:"personal,omitempty"`
	ExpiresOn   *time.Time    `json:"expirationDate,omitempty"  yaml:"expirationDate,omitempty"`
}

// UserPersonal holds the personal details of a user record.
type UserPersonal struct {
	FirstName string        `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string        `json:"lastName"            yaml:"lastName"`
	Email     string        `json:"email,omitempty"     yaml:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"     yaml:"phone,omitempty"`
	Addresses []UserAddress `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}

// UserAddress is one postal address attached to a user record.
type UserAddress struct {
	AddressTypeID string `json:"addressTypeId,omitempty" yaml:"addressTypeId,omitempty"`
	AddressLine1  string `json:"addressLine1,omitempty"  yaml:"addressLine1,omitempty"`
	City          string `json:"city,omitempty"          yaml:"city,omitempty"`
	Region        string `json:"region,omitempty"        yaml:"region,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"    yaml:"postalCode,omitempty"`
	Primary       bool   `json:"primaryAddress"          yaml:"primaryAddress"`
}

// Instance represents a bibliographic instance record.
type Instance struct {
	ID    string `json:"id"             yaml:"id"`
	HRID  string `json:"hrid"           yaml:"hrid"`
	Title string `json:"title"          yaml:"title"`
}

// Holding represents a holdings record attached to an instance.
type Holding struct {
	ID                  string `json:"id"                            yaml:"id"`
	InstanceID          string `json:"instanceId"                    yaml:"instanceId"`
	PermanentLocationID string `json:"permanentLocationId,omitempty" yaml:"permanentLocationId,omitempty"`
	EffectiveLocationID string `json:"effectiveLocationId,omitempty" yaml:"effectiveLocationId,omitempty"`
	CallNumber          string `json:"callNumber,omitempty"          yaml:"callNumber,omitempty"`
	CallNumberPrefix    string `json:"callNumberPrefix,omitempty"    yaml:"callNumberPrefix,omitempty"`
	DiscoverySuppress   bool   `json:"discoverySuppress"             yaml:"discoverySuppress"`
}

// Item represents an item record attached to a holdings record.
type Item struct {
	ID                  string     `json:"id"                            yaml:"id"`
	HoldingsRecordID    string     `json:"holdingsRecordId"              yaml:"holdingsRecordId"`
	Barcode             string     `json:"barcode,omitempty"             yaml:"barcode,omitempty"`
	Enumeration         string     `json:"enumeration,omitempty"         yaml:"enumeration,omitempty"`
	Chronology          string     `json:"chronology,omitempty"          yaml:"chronology,omitempty"`
	Status              ItemStatus `json:"status"                        yaml:"status"`
	EffectiveLocationID string     `json:"effectiveLocationId,omitempty" yaml:"effectiveLocationId,omitempty"`
	DiscoverySuppress   bool       `json:"discoverySuppress"             yaml:"discoverySuppress"`
}

// ItemStatus is the availability state of an item.
type ItemStatus struct {
	Name string     `json:"name"           yaml:"name"`
	Date *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// Loan represents a circulation loan.
type Loan struct {
	ID           string     `json:"id"                     yaml:"id"`
	UserID       string     `json:"userId"                 yaml:"userId"`
	ItemID       string     `json:"itemId"                 yaml:"itemId"`
	Action       string     `json:"action,omitempty"       yaml:"action,omitempty"`
	LoanDate     *time.Time `json:"loanDate,omitempty"     yaml:"loanDate,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"      yaml:"dueDate,omitempty"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"   yaml:"returnDate,omitempty"`
	RenewalCount int        `json:"renewalCount,omitempty" yaml:"renewalCount,omitempty"`
	Status       LoanStatus `json:"status"                 yaml:"status"`
	Item         *Item      `json:"item,omitempty"         yaml:"item,omitempty"`
}

// LoanStatus is the open/closed state of a loan.
type LoanStatus struct {
	Name string `json:"name" yaml:"name"`
}

// HoldRequest represents a title- or item-level hold request.
type HoldRequest struct {
	ID              string        `json:"id"                        yaml:"id"`
	RequesterID     string        `json:"requesterId"               yaml:"requesterId"`
	ItemID          string        `json:"itemId,omitempty"          yaml:"itemId,omitempty"`
	InstanceID      string        `json:"instanceId,omitempty"      yaml:"instanceId,omitempty"`
	RequestType     string        `json:"requestType"               yaml:"requestType"`
	RequestLevel    string        `json:"requestLevel,omitempty"    yaml:"requestLevel,omitempty"`
	RequestDate     *time.Time    `json:"requestDate,omitempty"     yaml:"requestDate,omitempty"`
	ExpirationDate  *time.Time    `json:"requestExpirationDate,omitempty" yaml:"requestExpirationDate,omitempty"`
	Position        int           `json:"position,omitempty"        yaml:"position,omitempty"`
	PickupServicePt string        `json:"pickupServicePointId,omitempty" yaml:"pickupServicePointId,omitempty"`
	Status          string        `json:"status"                    yaml:"status"`
	Item            *RequestItem  `json:"item,omitempty"            yaml:"item,omitempty"`
}

// RequestItem is the denormalized item summary embedded in a request.
type RequestItem struct {
	Barcode string `json:"barcode,omitempty" yaml:"barcode,omitempty"`
}

// Account represents a fee/fine account attached to a user.
type Account struct {
	ID          string        `json:"id"                    yaml:"id"`
	UserID      string        `json:"userId"                yaml:"userId"`
	ItemID      string        `json:"itemId,omitempty"      yaml:"itemId,omitempty"`
	FeeFineType string        `json:"feeFineType,omitempty" yaml:"feeFineType,omitempty"`
	Amount      float64       `json:"amount"                yaml:"amount"`
	Remaining   float64       `json:"remaining"             yaml:"remaining"`
	DateCreated *time.Time    `json:"dateCreated,omitempty" yaml:"dateCreated,omitempty"`
	Status      AccountStatus `json:"status"                yaml:"status"`
}

// AccountStatus is the open/closed state of a fee/fine account.
type AccountStatus struct {
	Name string `json:"name" yaml:"name"`
}

// Location represents a physical or virtual shelving location.
type Location struct {
	ID                   string `json:"id"                             yaml:"id"`
	Name                 string `json:"name"                           yaml:"name"`
	Code                 string `json:"code"                           yaml:"code"`
	DiscoveryDisplayName string `json:"discoveryDisplayName,omitempty" yaml:"discoveryDisplayName,omitempty"`
	IsActive             bool   `json:"isActive"                       yaml:"isActive"`
}

// AddressType represents a named address category for user addresses.
type AddressType struct {
	ID          string `json:"id"             yaml:"id"`
	AddressType string `json:"addressType"    yaml:"addressType"`
	Description string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// ModuleDescriptor represents one deployed module as reported by the
// gateway's proxy endpoint.
type ModuleDescriptor struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Result array keys used by list endpoints.
const (
	RecordKeyUsers        = "users"
	RecordKeyInstances    = "instances"
	RecordKeyHoldings     = "holdingsRecords"
	RecordKeyItems        = "items"
	RecordKeyLoans        = "loans"
	RecordKeyRequests     = "requests"
	RecordKeyAccounts     = "accounts"
	RecordKeyLocations    = "locations"
	RecordKeyAddressTypes = "addressTypes"
)
