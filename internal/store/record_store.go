package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/crm-planner/internal/model"
)

// UpsertAccounts inserts or replaces a batch of accounts.
func (s *SQLiteStore) UpsertAccounts(
	ctx context.Context,
	accounts []model.Account,
) error {
	if len(accounts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range accounts {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO accounts (
				id, name, industry, website, owner_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Industry, a.Website, a.OwnerID,
			a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting account %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetAccounts retrieves all accounts ordered by name.
func (s *SQLiteStore) GetAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := s.db.SelectContext(ctx, &accounts, "SELECT * FROM accounts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	return accounts, nil
}

// UpsertContacts inserts or replaces a batch of contacts.
func (s *SQLiteStore) UpsertContacts(
	ctx context.Context,
	contacts []model.Contact,
) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range contacts {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO contacts (
				id, account_id, name, email, phone, role, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.AccountID, c.Name, c.Email, c.Phone, c.Role,
			c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting contact %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// GetContacts retrieves contacts, optionally scoped to one account.
func (s *SQLiteStore) GetContacts(
	ctx context.Context,
	accountID string,
) ([]model.Contact, error) {
	query := "SELECT * FROM contacts ORDER BY name"
	args := []interface{}{}
	if accountID != "" {
		query = "SELECT * FROM contacts WHERE account_id = ? ORDER BY name"
		args = append(args, accountID)
	}

	var contacts []model.Contact
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	return contacts, nil
}

// UpsertProducts inserts or replaces a batch of products.
func (s *SQLiteStore) UpsertProducts(
	ctx context.Context,
	products []model.Product,
) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO products (
				id, name, sku, price, active, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.SKU, p.Price, boolToInt(p.Active),
			p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProducts retrieves products, optionally only active ones.
func (s *SQLiteStore) GetProducts(
	ctx context.Context,
	activeOnly bool,
) ([]model.Product, error) {
	query := "SELECT * FROM products ORDER BY name"
	if activeOnly {
		query = "SELECT * FROM products WHERE active = 1 ORDER BY name"
	}

	var products []model.Product
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return products, nil
}

// UpsertUsers inserts or replaces a batch of directory users.
func (s *SQLiteStore) UpsertUsers(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO users (id, display_name, email, created_at)
			VALUES (?, ?, ?, ?)`,
			u.ID, u.DisplayName, u.Email, u.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting user %s: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// GetUsers retrieves all directory users ordered by display name.
func (s *SQLiteStore) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY display_name")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a single directory user.
func (s *SQLiteStore) GetUserByID(
	ctx context.Context,
	id string,
) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found", id)
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}
