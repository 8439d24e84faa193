package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/mhcottonclothbd/MHCloth-web-sub002/internal/products"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/pagination"
)

// Repository persists wishlist rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AddItem records a like, ignoring duplicates for the same user/product pair.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP) ON CONFLICT (user_id, product_id) DO NOTHING",
		uuid.New(), userID, productID,
	).Error
}

// RemoveItem deletes a like if present.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?",
		userID, productID,
	).Error
}

// ListItems returns the user's wishlist entries, newest first, with their products.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.WishlistItem
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return PageDTO{}, err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	productIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		productIDs = append(productIDs, row.ProductID)
	}
	productsByID, err := r.loadProducts(ctx, productIDs)
	if err != nil {
		return PageDTO{}, err
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		prod, ok := productsByID[row.ProductID]
		if !ok {
			continue
		}
		items = append(items, ItemDTO{
			ID:      row.ID,
			Product: *product.NewProductDTO(&prod),
			AddedAt: row.CreatedAt,
		})
	}

	return PageDTO{Items: items, NextCursor: nextCursor}, nil
}

// ListItemIDs returns every product ID the user has liked, newest first.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID) (IDsDTO, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Pluck("product_id", &ids).Error; err != nil {
		return IDsDTO{}, err
	}
	return IDsDTO{ProductIDs: ids}, nil
}

func (r *Repository) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	byID := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}
