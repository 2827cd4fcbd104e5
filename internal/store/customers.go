package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
)

const (
	customerPrefix           = "customer:"
	customerByUsernamePrefix = "idx:customers:username:"
)

// Customer Operations

// CreateCustomer creates a new customer. Usernames are unique.
func (s *Store) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	key := []byte(customerPrefix + customer.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check customer exists: %w", err)
	}
	if exists {
		return ErrCustomerExists
	}

	if customer.Username != "" {
		usernameKey := []byte(customerByUsernamePrefix + customer.Username)
		taken, err := s.exists(usernameKey)
		if err != nil {
			return fmt.Errorf("check username taken: %w", err)
		}
		if taken {
			return ErrCustomerExists
		}
	}

	// Use a transaction to create the customer and its username index atomically.
	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(customer)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		if customer.Username == "" {
			return nil
		}
		usernameKey := []byte(customerByUsernamePrefix + customer.Username)
		return txn.Set(usernameKey, []byte(customer.ID))
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "customer created",
			slog.String("id", customer.ID),
			slog.String("username", customer.Username),
			slog.Bool("subscriber", customer.IsSubscriber()),
		)
	}
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	key := []byte(customerPrefix + id)

	var customer domain.Customer
	err := s.get(key, &customer)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

// GetCustomerByUsername retrieves a customer through the username index.
func (s *Store) GetCustomerByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	usernameKey := []byte(customerByUsernamePrefix + username)

	var customerID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			customerID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer by username: %w", err)
	}
	return s.GetCustomer(ctx, customerID)
}

// RefreshSession records a login for the customer and extends their
// session window. Returns the updated customer.
func (s *Store) RefreshSession(ctx context.Context, customerID string, now time.Time) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.TouchSession(now)

	if err := s.set([]byte(customerPrefix+customer.ID), customer); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "session refreshed",
			slog.String("customer", customer.ID),
			slog.Time("expires", customer.SessionExpiresAt),
		)
	}
	return customer, nil
}
