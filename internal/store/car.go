package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autohaven/apiserver/types"
)

// CarRepository handles persistence for car listings.
type CarRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `id, user_id, title, make, model, year, price, mileage,
		condition, fuel, transmission, description, features, location, images, created_at`

type carScanner interface {
	Scan(dest ...any) error
}

func scanCar(row carScanner) (types.Car, error) {
	var car types.Car
	var featuresJSON, imagesJSON []byte
	err := row.Scan(
		&car.ID,
		&car.UserID,
		&car.Title,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Price,
		&car.Mileage,
		&car.Condition,
		&car.Fuel,
		&car.Transmission,
		&car.Description,
		&featuresJSON,
		&car.Location,
		&imagesJSON,
		&car.CreatedAt,
	)
	if err != nil {
		return types.Car{}, err
	}
	_ = json.Unmarshal(featuresJSON, &car.Features)
	_ = json.Unmarshal(imagesJSON, &car.Images)
	if car.Features == nil {
		car.Features = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	return car, nil
}

func (r *CarRepository) Get(ctx context.Context, id int) (types.Car, error) {
	const query = `
		SELECT ` + carColumns + `
		FROM cars
		WHERE id = $1`
	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Car{}, ErrNotFound
		}
		return types.Car{}, err
	}
	return car, nil
}

// List returns the cars matching every set field of the filter, newest
// first. An empty filter returns the whole collection.
func (r *CarRepository) List(ctx context.Context, filter types.CarFilter) ([]types.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars`

	var conds []string
	var args []any
	equal := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.UserID != 0 {
		equal("user_id", filter.UserID)
	}
	if filter.Make != "" {
		equal("make", filter.Make)
	}
	if filter.Model != "" {
		equal("model", filter.Model)
	}
	if filter.Condition != "" {
		equal("condition", string(filter.Condition))
	}
	if filter.Fuel != "" {
		equal("fuel", string(filter.Fuel))
	}
	if filter.Transmission != "" {
		equal("transmission", string(filter.Transmission))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]types.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CarRepository) Create(ctx context.Context, car types.Car) (types.Car, error) {
	car.CreatedAt = time.Now()
	if car.Features == nil {
		car.Features = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}

	featuresJSON, err := json.Marshal(car.Features)
	if err != nil {
		return types.Car{}, err
	}
	imagesJSON, err := json.Marshal(car.Images)
	if err != nil {
		return types.Car{}, err
	}

	const query = `
		INSERT INTO cars (user_id, title, make, model, year, price, mileage,
			condition, fuel, transmission, description, features, location, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		car.UserID,
		car.Title,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Mileage,
		car.Condition,
		car.Fuel,
		car.Transmission,
		car.Description,
		featuresJSON,
		car.Location,
		imagesJSON,
		car.CreatedAt,
	).Scan(&car.ID); err != nil {
		return types.Car{}, err
	}
	return car, nil
}

// Update merges the supplied fields into the stored listing and returns
// the result. It never creates a listing.
func (r *CarRepository) Update(ctx context.Context, id int, update types.CarUpdate) (types.Car, error) {
	car, err := r.Get(ctx, id)
	if err != nil {
		return types.Car{}, err
	}
	car = update.Apply(car)

	featuresJSON, err := json.Marshal(car.Features)
	if err != nil {
		return types.Car{}, err
	}
	imagesJSON, err := json.Marshal(car.Images)
	if err != nil {
		return types.Car{}, err
	}

	const query = `
		UPDATE cars
		SET title = $1,
			make = $2,
			model = $3,
			year = $4,
			price = $5,
			mileage = $6,
			condition = $7,
			fuel = $8,
			transmission = $9,
			description = $10,
			features = $11,
			location = $12,
			images = $13
		WHERE id = $14`
	result, err := r.db.ExecContext(
		ctx,
		query,
		car.Title,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Mileage,
		car.Condition,
		car.Fuel,
		car.Transmission,
		car.Description,
		featuresJSON,
		car.Location,
		imagesJSON,
		id,
	)
	if err != nil {
		return types.Car{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Car{}, err
	}
	if affected == 0 {
		return types.Car{}, ErrNotFound
	}
	return car, nil
}

// Delete removes a listing. It reports whether a row was actually
// removed, so a repeated delete is an idempotent false.
func (r *CarRepository) Delete(ctx context.Context, id int) (bool, error) {
	const query = `DELETE FROM cars WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
