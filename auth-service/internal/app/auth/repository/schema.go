package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Схема сервиса. Роли и разрешения сидируются идемпотентно,
// поэтому InitSchema безопасно вызывать при каждом старте.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		id SERIAL PRIMARY KEY,
		code VARCHAR(100) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS roles_permissions (
		role_id INT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		permission_id INT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
		PRIMARY KEY (role_id, permission_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		role_id INT NOT NULL REFERENCES roles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,

	`INSERT INTO roles (name, description) VALUES
		('customer', 'Marketplace customer'),
		('seller', 'Store owner'),
		('admin', 'Platform administrator')
	ON CONFLICT (name) DO NOTHING`,
	`INSERT INTO permissions (code, description) VALUES
		('reviews:write', 'Submit and delete own product reviews'),
		('cart:write', 'Manage own shopping cart'),
		('catalog:write', 'Manage own store products and variants'),
		('users:manage', 'Manage users, roles and permissions')
	ON CONFLICT (code) DO NOTHING`,
	`INSERT INTO roles_permissions (role_id, permission_id)
		SELECT r.id, p.id FROM roles r JOIN permissions p ON
			(r.name = 'customer' AND p.code IN ('reviews:write', 'cart:write')) OR
			(r.name = 'seller' AND p.code IN ('reviews:write', 'cart:write', 'catalog:write')) OR
			(r.name = 'admin')
	ON CONFLICT (role_id, permission_id) DO NOTHING`,
}

// InitSchema создает таблицы сервиса и сидирует роли customer/seller/admin
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
