package tables

import (
	"context"
	"fmt"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const usersTable = "Users"

// UserTable maps operator accounts onto the Users sheet.
// Column layout: username, password, display_name, role.
type UserTable struct {
	store rowstore.Store
}

// NewUserTable wires the typed adapter.
func NewUserTable(store rowstore.Store) *UserTable {
	return &UserTable{store: store}
}

// Get returns the account for the given username.
func (t *UserTable) Get(ctx context.Context, username string) (models.User, error) {
	rows, err := t.store.ReadAll(ctx, usersTable)
	if err != nil {
		return models.User{}, err
	}

	for _, row := range rows {
		if stringCell(row, 0) != username {
			continue
		}

		role, err := models.ParseRole(stringCell(row, 3))
		if err != nil {
			return models.User{}, fmt.Errorf("table %s: user %s: %w", usersTable, username, err)
		}

		return models.User{
			Username:    username,
			Password:    stringCell(row, 1),
			DisplayName: stringCell(row, 2),
			Role:        role,
		}, nil
	}
	return models.User{}, fmt.Errorf("table %s id %s: %w", usersTable, username, rowstore.ErrRowNotFound)
}
