package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/lib/pq"
)

const adColumns = `a.id, a.user_id, a.title, a.description, a.price, a.category, a.location,
	a.images, a.is_active, a.created_at, a.updated_at,
	p.id, p.email, p.city, p.avatar_url`

const adFrom = `FROM ads a LEFT JOIN profiles p ON p.id = a.user_id`

type AdRepository struct {
	db *sql.DB
}

func NewAdRepository(db *sql.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Insert(ctx context.Context, ad *domain.Ad) error {
	images := ad.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ads (id, user_id, title, description, price, category, location, images, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ad.ID, ad.OwnerID, ad.Title, ad.Description, nullFloat(ad.Price), string(ad.Category), ad.Location,
		pq.Array(images), ad.Active, ad.CreatedAt, ad.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ad: %w", err)
	}
	return nil
}

func (r *AdRepository) ListActive(ctx context.Context) ([]*domain.Ad, error) {
	return r.query(ctx, `SELECT `+adColumns+` `+adFrom+` WHERE a.is_active = TRUE ORDER BY a.created_at DESC`)
}

func (r *AdRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Ad, error) {
	return r.query(ctx, `SELECT `+adColumns+` `+adFrom+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`, ownerID)
}

func (r *AdRepository) FindByID(ctx context.Context, id string) (*domain.Ad, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adColumns+` `+adFrom+` WHERE a.id = $1`, id)
	ad, err := scanAd(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ad by ID: %w", err)
	}
	return ad, nil
}

func (r *AdRepository) UpdateImages(ctx context.Context, id, ownerID string, images []string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ads SET images = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		pq.Array(images), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ad images: %w", err)
	}
	return expectOneRow(result)
}

func (r *AdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ads SET title = $1, description = $2, price = $3, category = $4, location = $5,
		        is_active = $6, updated_at = $7
		 WHERE id = $8 AND user_id = $9`,
		ad.Title, ad.Description, nullFloat(ad.Price), string(ad.Category), ad.Location,
		ad.Active, ad.UpdatedAt, ad.ID, ad.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ad: %w", err)
	}
	return expectOneRow(result)
}

func (r *AdRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Ad, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ads: %w", err)
	}
	defer rows.Close()

	ads := []*domain.Ad{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ads: %w", err)
	}
	return ads, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAd(s scanner) (*domain.Ad, error) {
	var (
		ad       domain.Ad
		price    sql.NullFloat64
		category string
		images   []string
		ownerID  sql.NullString
		email    sql.NullString
		city     sql.NullString
		avatar   sql.NullString
	)
	err := s.Scan(&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &price, &category, &ad.Location,
		pq.Array(&images), &ad.Active, &ad.CreatedAt, &ad.UpdatedAt,
		&ownerID, &email, &city, &avatar)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		v := price.Float64
		ad.Price = &v
	}
	ad.Category = domain.Category(category)
	if images == nil {
		images = []string{}
	}
	ad.Images = images
	if ownerID.Valid {
		ad.Owner = &domain.OwnerSummary{
			ID:          ownerID.String,
			DisplayName: domain.DisplayNameFromEmail(email.String),
			City:        city.String,
			AvatarURL:   avatar.String,
		}
	}
	return &ad, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.AdRepository = (*AdRepository)(nil)
