package car

import "time"

// Car is a vehicle in the dealership catalog. Version backs the optimistic
// concurrency check on state updates: every successful write increments it,
// and a stale version loses the write.
type Car struct {
	ID      int64
	Make    string
	Model   string
	Year    int
	Price   int64
	State   State
	Version int64
}

// NewCar builds a catalog entry in the FOR_SALE state. The ID is assigned by
// the store on create.
func NewCar(make, model string, year int, price int64) (*Car, error) {
	if make == "" || model == "" {
		return nil, ErrMissingField
	}
	if year < 1900 || year > time.Now().Year()+1 {
		return nil, ErrInvalidYear
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}

	return &Car{
		Make:  make,
		Model: model,
		Year:  year,
		Price: price,
		State: StateForSale,
	}, nil
}
