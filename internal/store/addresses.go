package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookmarketapp/bookmarket-server/internal/domain"
	"github.com/bookmarketapp/bookmarket-server/internal/id"
	"github.com/bookmarketapp/bookmarket-server/internal/normalize"
)

const (
	addressPrefix      = "address:"
	addressByKeyPrefix = "idx:addresses:key:"
)

// addressKey builds the dedupe key from the address's normalized fields.
func addressKey(a *domain.Address) string {
	return normalize.Key(a.Street1, a.Street2, a.City, a.State, a.Zip, a.Country)
}

// Address Operations

// EnsureAddress returns the existing address matching the given fields, or
// creates one. Matching is by normalized field values, so formatting and
// case differences collapse onto one record.
func (s *Store) EnsureAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	dedupeKey := []byte(addressByKeyPrefix + addressKey(&addr))

	var existingID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dedupeKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			existingID = string(val)
			return nil
		})
	})
	if err == nil {
		return s.GetAddress(ctx, existingID)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("ensure address: %w", err)
	}

	newID, err := id.Generate("addr")
	if err != nil {
		return nil, fmt.Errorf("ensure address: %w", err)
	}
	addr.ID = newID

	// Create the address and its dedupe index atomically.
	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(&addr)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(addressPrefix+addr.ID), data); err != nil {
			return err
		}
		return txn.Set(dedupeKey, []byte(addr.ID))
	})
	if err != nil {
		return nil, fmt.Errorf("ensure address: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "address created",
			slog.String("id", addr.ID),
			slog.String("city", addr.City),
			slog.String("country", addr.Country),
		)
	}
	return &addr, nil
}

// GetAddress retrieves an address by ID.
func (s *Store) GetAddress(_ context.Context, addrID string) (*domain.Address, error) {
	key := []byte(addressPrefix + addrID)

	var addr domain.Address
	err := s.get(key, &addr)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &addr, nil
}
