package types

import "time"

// Condition describes the overall state of a listed vehicle.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "like_new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Valid reports whether c is one of the known condition values.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Fuel describes a vehicle's fuel type.
type Fuel string

const (
	FuelGasoline     Fuel = "gasoline"
	FuelDiesel       Fuel = "diesel"
	FuelElectric     Fuel = "electric"
	FuelHybrid       Fuel = "hybrid"
	FuelPlugInHybrid Fuel = "plug_in_hybrid"
	FuelOther        Fuel = "other"
)

// Valid reports whether f is one of the known fuel values.
func (f Fuel) Valid() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelElectric, FuelHybrid, FuelPlugInHybrid, FuelOther:
		return true
	}
	return false
}

// Transmission describes a vehicle's transmission type.
type Transmission string

const (
	TransmissionAutomatic     Transmission = "automatic"
	TransmissionManual        Transmission = "manual"
	TransmissionSemiAutomatic Transmission = "semi_automatic"
)

// Valid reports whether t is one of the known transmission values.
func (t Transmission) Valid() bool {
	switch t {
	case TransmissionAutomatic, TransmissionManual, TransmissionSemiAutomatic:
		return true
	}
	return false
}

// Car represents a vehicle listing offered for sale.
type Car struct {
	// ID is the unique identifier of the listing.
	ID int `json:"id" db:"id"`

	// UserID identifies the seller who owns the listing. A user may own
	// many listings.
	UserID int `json:"user_id" db:"user_id"`

	// Title is the headline of the listing.
	Title string `json:"title" db:"title"`

	// Make is the vehicle manufacturer (e.g., "Toyota").
	Make string `json:"make" db:"make"`

	// Model is the vehicle model (e.g., "Camry").
	Model string `json:"model" db:"model"`

	// Year is the model year.
	Year int `json:"year" db:"year"`

	// Price is the asking price in the smallest currency unit.
	Price int `json:"price" db:"price"`

	// Mileage is the odometer reading.
	Mileage int `json:"mileage" db:"mileage"`

	// Condition is the seller-declared state of the vehicle.
	Condition Condition `json:"condition" db:"condition"`

	// Fuel is the vehicle's fuel type.
	Fuel Fuel `json:"fuel" db:"fuel"`

	// Transmission is the vehicle's transmission type.
	Transmission Transmission `json:"transmission" db:"transmission"`

	// Description contains the full listing text.
	Description string `json:"description" db:"description"`

	// Features is an ordered list of free-form feature labels
	// (e.g., "Sunroof"). Never nil once stored.
	Features []string `json:"features" db:"features"`

	// Location is a free-form city/region string.
	Location string `json:"location" db:"location"`

	// Images is an ordered list of image URLs. Never nil once stored.
	Images []string `json:"images" db:"images"`

	// CreatedAt is the timestamp at which the listing was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CarUpdate describes a partial update to a listing. Nil fields retain
// their prior values; an update never creates a listing.
type CarUpdate struct {
	Title        *string       `json:"title"`
	Make         *string       `json:"make"`
	Model        *string       `json:"model"`
	Year         *int          `json:"year"`
	Price        *int          `json:"price"`
	Mileage      *int          `json:"mileage"`
	Condition    *Condition    `json:"condition"`
	Fuel         *Fuel         `json:"fuel"`
	Transmission *Transmission `json:"transmission"`
	Description  *string       `json:"description"`
	Features     *[]string     `json:"features"`
	Location     *string       `json:"location"`
	Images       *[]string     `json:"images"`
}

// Apply merges the update into car, leaving nil fields untouched.
func (u CarUpdate) Apply(car Car) Car {
	if u.Title != nil {
		car.Title = *u.Title
	}
	if u.Make != nil {
		car.Make = *u.Make
	}
	if u.Model != nil {
		car.Model = *u.Model
	}
	if u.Year != nil {
		car.Year = *u.Year
	}
	if u.Price != nil {
		car.Price = *u.Price
	}
	if u.Mileage != nil {
		car.Mileage = *u.Mileage
	}
	if u.Condition != nil {
		car.Condition = *u.Condition
	}
	if u.Fuel != nil {
		car.Fuel = *u.Fuel
	}
	if u.Transmission != nil {
		car.Transmission = *u.Transmission
	}
	if u.Description != nil {
		car.Description = *u.Description
	}
	if u.Features != nil {
		car.Features = *u.Features
	}
	if u.Location != nil {
		car.Location = *u.Location
	}
	if u.Images != nil {
		car.Images = *u.Images
	}
	return car
}

// CarFilter restricts a listing query to rows whose fields exactly match
// every set filter. Zero values impose no constraint.
type CarFilter struct {
	UserID       int
	Make         string
	Model        string
	Condition    Condition
	Fuel         Fuel
	Transmission Transmission
}

// CarSearchCriteria captures the full search surface of the listing
// endpoint: exact-match fields, inclusive numeric range bounds, and a
// set of required features. Nil bounds impose no constraint.
type CarSearchCriteria struct {
	Make         string
	Model        string
	Condition    string
	Fuel         string
	Transmission string

	MinPrice   *int
	MaxPrice   *int
	MinYear    *int
	MaxYear    *int
	MinMileage *int
	MaxMileage *int

	// Features lists the features a listing must all carry (superset
	// semantics, not intersection).
	Features []string
}

// Filter returns the exact-match portion of the criteria, the part a
// record store can apply as plain equality.
func (c CarSearchCriteria) Filter() CarFilter {
	return CarFilter{
		Make:         c.Make,
		Model:        c.Model,
		Condition:    Condition(c.Condition),
		Fuel:         Fuel(c.Fuel),
		Transmission: Transmission(c.Transmission),
	}
}
