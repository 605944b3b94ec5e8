package order

import "time"

// Kind discriminates sales orders from service orders. The source modeled
// these as two parallel class trees; one struct with a discriminator keeps a
// single lifecycle implementation.
type Kind string

const (
	KindSale    Kind = "SALE"
	KindService Kind = "SERVICE"
)

func (k Kind) Valid() bool {
	return k == KindSale || k == KindService
}

// Order links one customer to one car. Both are held by reference: the order
// does not own either lifecycle, it only pins the car against deletion.
type Order struct {
	ID         int64
	Kind       Kind
	Date       time.Time
	Status     Status
	CustomerID int64
	CarID      int64
}

// NewSalesOrder opens a sale for the given customer and car.
func NewSalesOrder(customerID, carID int64) (*Order, error) {
	return newOrder(KindSale, customerID, carID)
}

// NewServiceOrder opens a service visit for the given customer and car.
func NewServiceOrder(customerID, carID int64) (*Order, error) {
	return newOrder(KindService, customerID, carID)
}

func newOrder(kind Kind, customerID, carID int64) (*Order, error) {
	if customerID <= 0 || carID <= 0 {
		return nil, ErrMissingReference
	}

	return &Order{
		Kind:       kind,
		Date:       time.Now().UTC(),
		Status:     StatusInProgress,
		CustomerID: customerID,
		CarID:      carID,
	}, nil
}

// Terminal reports whether the order can accept no further transitions.
func (o *Order) Terminal() bool {
	return o.Status == StatusComplete || o.Status == StatusCancel
}
