package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"padoca/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context, page, limit int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	SoftDelete(ctx context.Context, id int64) error
}

type clientRepository struct {
	db Database
}

func NewClientRepository(db Database) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `INSERT INTO clients (name, email, phone, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, client.Name, client.Email, client.Phone, client.Document).
		Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the client is absent or soft-deleted.
func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT id, name, email, phone, document, created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1 AND deleted_at IS NULL`
	var client models.Client
	err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document,
		&client.CreatedAt, &client.UpdatedAt, &client.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	query := `SELECT id, name, email, phone, document, created_at, updated_at, deleted_at
		FROM clients
		WHERE email = $1 AND deleted_at IS NULL`
	var client models.Client
	err := r.db.QueryRow(ctx, query, email).Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document,
		&client.CreatedAt, &client.UpdatedAt, &client.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client by email: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, page, limit int) ([]*models.Client, error) {
	offset := (page - 1) * limit
	query := `SELECT id, name, email, phone, document, created_at, updated_at, deleted_at
		FROM clients
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var client models.Client
		err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document,
			&client.CreatedAt, &client.UpdatedAt, &client.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, &client)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `UPDATE clients SET name = $1, email = $2, phone = $3, document = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Phone, client.Document, client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %d not found for update", client.ID)
	}
	return nil
}

func (r *clientRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE clients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %d not found for deletion", id)
	}
	return nil
}
