package memory

import (
	"context"

	"github.com/autohaven/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

// Seed populates a fresh memory store with a sample seller and a set of
// listings so the API is browsable out of the box. It is only called for
// the memory backend; the Postgres backend starts empty.
func Seed(ctx context.Context, users *UserRepository, cars *CarRepository) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seller, err := users.Create(ctx, types.User{
		Username:     "carseller",
		Email:        "seller@autohaven.example",
		Name:         "Auto Haven Motors",
		PasswordHash: string(hashed),
	})
	if err != nil {
		return err
	}

	for _, car := range sampleCars {
		car.UserID = seller.ID
		if _, err := cars.Create(ctx, car); err != nil {
			return err
		}
	}
	return nil
}

var sampleCars = []types.Car{
	{
		Title:        "2020 Toyota Camry XSE - Low Miles, Like New",
		Make:         "Toyota",
		Model:        "Camry",
		Year:         2020,
		Price:        25999,
		Mileage:      15420,
		Condition:    types.ConditionLikeNew,
		Fuel:         types.FuelGasoline,
		Transmission: types.TransmissionAutomatic,
		Description:  "Low-mileage Camry XSE in excellent shape inside and out, with leather seats, sunroof, and the Toyota Safety Sense package.",
		Features:     []string{"Leather Seats", "Navigation", "Bluetooth", "Backup Camera", "Sunroof", "Heated Seats"},
		Location:     "San Francisco, CA",
		Images:       []string{"https://images.autohaven.example/listings/camry-xse-front.jpg"},
	},
	{
		Title:        "2018 Tesla Model 3 Long Range",
		Make:         "Tesla",
		Model:        "Model 3",
		Year:         2018,
		Price:        41995,
		Mileage:      31000,
		Condition:    types.ConditionExcellent,
		Fuel:         types.FuelElectric,
		Transmission: types.TransmissionAutomatic,
		Description:  "Single-owner Long Range Model 3, always garaged and regularly maintained. White exterior, black interior.",
		Features:     []string{"Autopilot", "Premium Interior", "Heated Seats", "Premium Audio", "Glass Roof"},
		Location:     "Austin, TX",
		Images:       []string{"https://images.autohaven.example/listings/model3-lr.jpg"},
	},
	{
		Title:        "2019 Honda Civic Sport - Turbocharged",
		Make:         "Honda",
		Model:        "Civic",
		Year:         2019,
		Price:        19750,
		Mileage:      28500,
		Condition:    types.ConditionGood,
		Fuel:         types.FuelGasoline,
		Transmission: types.TransmissionManual,
		Description:  "Sporty Civic with a manual gearbox and turbocharged engine. Well maintained, service records available.",
		Features:     []string{"Sport Mode", "Apple CarPlay", "Android Auto", "Turbocharged Engine", "Sport Wheels"},
		Location:     "Chicago, IL",
		Images:       []string{"https://images.autohaven.example/listings/civic-sport.jpg"},
	},
	{
		Title:        "2021 Ford F-150 Lariat - 4x4, Crew Cab",
		Make:         "Ford",
		Model:        "F-150",
		Year:         2021,
		Price:        52990,
		Mileage:      8700,
		Condition:    types.ConditionLikeNew,
		Fuel:         types.FuelGasoline,
		Transmission: types.TransmissionAutomatic,
		Description:  "Nearly new F-150 Lariat with 4x4, crew cab, leather interior, and Pro Trailer Backup Assist.",
		Features:     []string{"4x4", "Leather Interior", "Navigation", "Crew Cab", "Trailer Backup Assist", "Heated Seats"},
		Location:     "Dallas, TX",
		Images:       []string{"https://images.autohaven.example/listings/f150-lariat.jpg"},
	},
	{
		Title:        "2017 BMW X5 xDrive35i - Luxury SUV",
		Make:         "BMW",
		Model:        "X5",
		Year:         2017,
		Price:        34500,
		Mileage:      42000,
		Condition:    types.ConditionExcellent,
		Fuel:         types.FuelGasoline,
		Transmission: types.TransmissionAutomatic,
		Description:  "Luxurious X5 with xDrive all-wheel drive, panoramic sunroof, heated leather seats, and premium sound.",
		Features:     []string{"All-Wheel Drive", "Panoramic Sunroof", "Heated Seats", "Navigation", "Premium Sound"},
		Location:     "Miami, FL",
		Images:       []string{"https://images.autohaven.example/listings/x5-xdrive.jpg"},
	},
	{
		Title:        "2022 Hyundai Tucson Limited - Hybrid SUV",
		Make:         "Hyundai",
		Model:        "Tucson",
		Year:         2022,
		Price:        33995,
		Mileage:      5200,
		Condition:    types.ConditionNew,
		Fuel:         types.FuelHybrid,
		Transmission: types.TransmissionAutomatic,
		Description:  "Nearly new Tucson Hybrid Limited delivering strong fuel economy without giving up performance.",
		Features:     []string{"Hybrid Powertrain", "Panoramic Sunroof", "360-degree Camera", "Leather Seats"},
		Location:     "Portland, OR",
		Images:       []string{"https://images.autohaven.example/listings/tucson-hybrid.jpg"},
	},
	{
		Title:        "2018 Jeep Wrangler Unlimited Rubicon",
		Make:         "Jeep",
		Model:        "Wrangler",
		Year:         2018,
		Price:        38750,
		Mileage:      29000,
		Condition:    types.ConditionExcellent,
		Fuel:         types.FuelGasoline,
		Transmission: types.TransmissionManual,
		Description:  "Trail-ready Wrangler Unlimited Rubicon with locking differentials, removable top, and rock rails.",
		Features:     []string{"4x4", "Removable Top", "Locking Differentials", "Rock Rails", "Manual Transmission"},
		Location:     "Moab, UT",
		Images:       []string{"https://images.autohaven.example/listings/wrangler-rubicon.jpg"},
	},
	{
		Title:        "2018 Chevrolet Bolt EV Premier",
		Make:         "Chevrolet",
		Model:        "Bolt EV",
		Year:         2018,
		Price:        22995,
		Mileage:      28000,
		Condition:    types.ConditionExcellent,
		Fuel:         types.FuelElectric,
		Transmission: types.TransmissionAutomatic,
		Description:  "Efficient all-electric hatchback with DC fast charging and plenty of tech for the price.",
		Features:     []string{"Electric Powertrain", "360-degree Camera", "Heated Seats", "DC Fast Charging"},
		Location:     "Sacramento, CA",
		Images:       []string{"https://images.autohaven.example/listings/bolt-ev.jpg"},
	},
}
