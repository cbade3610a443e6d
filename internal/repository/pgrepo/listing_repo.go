package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const listingColumns = `id, created_at, updated_at, seller_id, gold_amount, price_per_kg, total_price, status`

type ListingRepository struct {
	conn uow.DBTX
}

func NewListingRepository(conn uow.DBTX) *ListingRepository {
	return &ListingRepository{conn: conn}
}

func (r *ListingRepository) Create(ctx context.Context, args repoargs.CreateListing) (*domain.Listing, error) {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO market_listings (seller_id, gold_amount, price_per_kg, total_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+listingColumns,
		args.SellerID, args.GoldAmount, args.PricePerKg, args.TotalPrice, string(domain.ListingStatusActive),
	)
	listing, err := scanListing(row)
	if err != nil {
		return nil, convertErr(err, "creating listing for seller %d", args.SellerID)
	}
	return listing, nil
}

// FindByIDForUpdate возвращает объявление, блокируя его строку до конца транзакции.
func (r *ListingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+listingColumns+` FROM market_listings WHERE id = $1 FOR UPDATE`, id)
	listing, err := scanListing(row)
	if err != nil {
		return nil, convertErr(err, "locking listing %d", id)
	}
	return listing, nil
}

// MarkSold переводит активное объявление в статус sold. Если объявление уже не активно,
// возвращает domain.ErrListingNotActive.
func (r *ListingRepository) MarkSold(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.conn.QueryRow(ctx,
		`UPDATE market_listings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+listingColumns,
		id, string(domain.ListingStatusSold), string(domain.ListingStatusActive),
	)
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("[repository/marking listing %d sold] %w", id, domain.ErrListingNotActive)
		}
		return nil, convertErr(err, "marking listing %d sold", id)
	}
	return listing, nil
}

// GetActive возвращает активные объявления, отсортированные по дате создания по убыванию.
func (r *ListingRepository) GetActive(ctx context.Context, limit uint) ([]domain.ListingView, error) {
	safeLimit, limitErr := safeConvertUintToInt32(limit)
	if limitErr != nil {
		return nil, convertErr(limitErr, "converting limit to int32")
	}

	rows, err := r.conn.Query(ctx,
		`SELECT ml.id, ml.created_at, ml.updated_at, ml.seller_id, ml.gold_amount, ml.price_per_kg,
			ml.total_price, ml.status, p.user_id
		FROM market_listings ml
		JOIN players p ON p.id = ml.seller_id
		WHERE ml.status = $1
		ORDER BY ml.created_at DESC, ml.id DESC
		LIMIT $2`,
		string(domain.ListingStatusActive), safeLimit,
	)
	if err != nil {
		return nil, convertErr(err, "getting active listings")
	}
	defer rows.Close()

	var listings = make([]domain.ListingView, 0, limit)
	for rows.Next() {
		var v domain.ListingView
		var status string
		if scanErr := rows.Scan(
			&v.ID,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.SellerID,
			&v.GoldAmount,
			&v.PricePerKg,
			&v.TotalPrice,
			&status,
			&v.SellerUserID,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning active listing")
		}
		v.Status = domain.ListingStatusType(status)
		listings = append(listings, v)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting active listings")
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var status string
	if err := row.Scan(
		&l.ID,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.SellerID,
		&l.GoldAmount,
		&l.PricePerKg,
		&l.TotalPrice,
		&status,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	l.Status = domain.ListingStatusType(status)
	return &l, nil
}

// safeConvertUintToInt32 безопасно конвертирует uint в int32. В случае выхода значения за рамки диапазона
// выбрасывает ошибку.
func safeConvertUintToInt32(val uint) (int32, error) {
	if val > uint(math.MaxInt32) {
		return 0, fmt.Errorf("value is out of range: %d", val)
	}
	return int32(val), nil
}
