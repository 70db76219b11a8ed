package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/wavemark/commerce-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Store) (bool, error) {
	// The unique constraint on user_id is the one-store-per-user guarantee;
	// a separate existence check would leave a race window between statements.
	query := `
        INSERT INTO stores (id, user_id, name, description, image_url, currency, created_at, updated_at)
        VALUES (:id, :user_id, :name, :description, :image_url, :currency, :created_at, :updated_at)
        ON CONFLICT (user_id) DO NOTHING
    `
	res, err := r.DB.NamedExecContext(ctx, query, s)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	var s model.Store
	query := `SELECT * FROM stores WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string) (*model.Store, error) {
	var s model.Store
	query := `SELECT * FROM stores WHERE user_id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Update(ctx context.Context, s *model.Store) error {
	query := `
        UPDATE stores
        SET name = :name,
            description = :description,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}
