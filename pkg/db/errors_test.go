package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}
	wrapped := fmt.Errorf("creating order: %w", pgErr)

	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(wrapped, "orders_order_number_key") {
		t.Fatal("expected match on constraint name")
	}
	if IsUniqueViolation(wrapped, "cart_items_identity_key") {
		t.Fatal("expected no match on a different constraint")
	}

	notNull := &pgconn.PgError{Code: "23502"}
	if IsUniqueViolation(notNull, "") {
		t.Fatal("expected false for a non unique-violation code")
	}

	if IsUniqueViolation(nil, "") {
		t.Fatal("expected false for nil error")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("expected false for unrelated error text")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: orders.order_number")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected message fallback to match sqlite text")
	}
}
