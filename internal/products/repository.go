package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/db/models"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/enums"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// whereArrayHas filters on membership in a text[] column. Postgres checks
// the array directly; other dialects match the serialized {"a","b"} literal
// the pq array types produce, where every element is quoted.
func whereArrayHas(qb *gorm.DB, column, value string) *gorm.DB {
	if qb.Dialector.Name() == "postgres" {
		return qb.Where("? = ANY("+column+")", value)
	}
	return qb.Where(column+` LIKE ('%"' || ? || '"%')`, value)
}

// FindByID loads the product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching the provided ids, unordered.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// AdjustStock decrements the stock counter for a product, flooring at zero.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END", delta, delta)).
		Error
}

// ListProducts returns one filtered page of the catalog. Cursor pagination is
// keyed on (created_at, id) and only applies to the newest-first sort; price
// sorts return a single page.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := input.Filters
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("price <= ?", *filter.PriceMax)
	}
	if size := strings.TrimSpace(filter.Size); size != "" {
		qb = whereArrayHas(qb, "sizes", size)
	}
	if color := strings.TrimSpace(filter.Color); color != "" {
		qb = whereArrayHas(qb, "colors", color)
	}
	if filter.OnSale != nil {
		qb = qb.Where("on_sale = ?", *filter.OnSale)
	}
	if filter.IsFeatured != nil {
		qb = qb.Where("is_featured = ?", *filter.IsFeatured)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}
	if !input.IncludeHidden {
		qb = qb.Where("status = ?", enums.ProductStatusActive)
	}

	sort := filter.Sort
	if sort == "" {
		sort = SortNewest
	}

	switch sort {
	case SortPriceAsc:
		qb = qb.Order("price ASC").Order("id ASC").Limit(pageSize)
	case SortPriceDesc:
		qb = qb.Order("price DESC").Order("id DESC").Limit(pageSize)
	default:
		if cursor != nil {
			qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
		qb = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)
	}

	var rows []models.Product
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if sort == SortNewest && len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	out := make([]ProductDTO, 0, len(rows))
	for idx := range rows {
		out = append(out, *NewProductDTO(&rows[idx]))
	}

	return &ProductListResult{
		Products:   out,
		NextCursor: nextCursor,
	}, nil
}
