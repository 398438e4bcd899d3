package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plancare/plansale-backend/internal/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetOrCreate returns the customer matching all four contact fields exactly,
// inserting c when there is no match. The boolean reports whether a row was created.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, c *models.Customer) (*models.Customer, bool, error) {
	q := conn(ctx, r.db)

	var existing models.Customer
	query := `
		SELECT id, name, email, address, phone_number
		FROM customers
		WHERE name = $1 AND email = $2 AND address = $3 AND phone_number = $4
		ORDER BY id
		LIMIT 1
	`
	err := q.GetContext(ctx, &existing, query, c.Name, c.Email, c.Address, c.PhoneNumber)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to look up customer: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, address, phone_number) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Email, c.Address, c.PhoneNumber)
	if err != nil {
		return nil, false, mapWriteError("customer", "create", err)
	}
	return c, true, nil
}
