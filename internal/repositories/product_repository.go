package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// UpdateProduct writes every column of product except stock_quantity, which is only written
	// when setStock is true. The stored stock is copied back into product either way.
	UpdateProduct(ctx context.Context, product *models.Product, setStock bool) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	BeginStockTx(ctx context.Context) (StockTx, error)
}

// StockTx is a unit of work over product stock. Rows returned by LockStock stay locked
// until Commit or Rollback. Rollback after Commit is a no-op.
type StockTx interface {
	LockStock(ctx context.Context, ids []int64) (map[int64]int64, error)
	DecrementStock(ctx context.Context, id, quantity int64) error
	Commit() error
	Rollback() error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.category_id, p.stock_quantity,
		p.image_url, p.specifications, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, withCategory bool) (*models.Product, error) {
	product := &models.Product{}

	var imageURL, categoryName sql.NullString
	var specs []byte

	dest := []any{&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID,
		&product.StockQuantity, &imageURL, &specs, &product.CreatedAt, &product.UpdatedAt}
	if withCategory {
		dest = append(dest, &categoryName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if imageURL.Valid {
		product.ImageURL = &imageURL.String
	}

	if categoryName.Valid {
		product.CategoryName = &categoryName.String
	}

	product.Specifications = map[string]string{}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &product.Specifications); err != nil {
			return nil, fmt.Errorf("decoding specifications: %w", err)
		}
	}

	return product, nil
}

func encodeSpecifications(specs map[string]string) ([]byte, error) {
	if specs == nil {
		specs = map[string]string{}
	}

	return json.Marshal(specs)
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	specs, err := encodeSpecifications(product.Specifications)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (name, description, price, category_id, stock_quantity, image_url, specifications)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`

	err = r.DB.QueryRowContext(dbCtx, query, product.Name, product.Description, product.Price, product.CategoryID,
		product.StockQuantity, product.ImageURL, specs).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", mapPQError(err))
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + `, c.name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product, setStock bool) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	specs, err := encodeSpecifications(product.Specifications)
	if err != nil {
		return err
	}

	query := `UPDATE products SET name = $1, description = $2, price = $3, category_id = $4,
			  image_url = $5, specifications = $6, updated_at = NOW()`
	args := []any{product.Name, product.Description, product.Price, product.CategoryID, product.ImageURL, specs}

	// Checkouts decrement stock_quantity in place; a stale value read before the edit must not overwrite them.
	if setStock {
		args = append(args, product.StockQuantity)
		query += fmt.Sprintf(", stock_quantity = $%d", len(args))
	}

	args = append(args, product.ID)
	query += fmt.Sprintf(" WHERE id = $%d RETURNING stock_quantity, updated_at", len(args))

	err = r.DB.QueryRowContext(dbCtx, query, args...).Scan(&product.StockQuantity, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating product: %w", mapPQError(err))
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

var sortColumns = map[string]string{
	models.SortByName:      "p.name",
	models.SortByPrice:     "p.price",
	models.SortByCreatedAt: "p.created_at",
}

func buildProductWhere(filter models.ProductFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", len(args)))
	}

	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := buildProductWhere(filter)

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = sortColumns[models.SortByName]
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Offset())

	query := fmt.Sprintf(`SELECT %s FROM products p%s ORDER BY %s %s, p.id ASC LIMIT $%d OFFSET $%d`,
		productColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows, false)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) BeginStockTx(ctx context.Context) (StockTx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning stock transaction: %w", err)
	}

	return &pgStockTx{tx: tx}, nil
}

type pgStockTx struct {
	tx   *sql.Tx
	done bool
}

// LockStock takes row locks in ascending id order. Ids with no row are absent from the result.
func (t *pgStockTx) LockStock(ctx context.Context, ids []int64) (map[int64]int64, error) {
	query := `SELECT id, stock_quantity FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := t.tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("locking stock rows: %w", err)
	}

	defer rows.Close()

	stock := make(map[int64]int64, len(ids))

	for rows.Next() {
		var id, qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scanning stock row: %w", err)
		}

		stock[id] = qty
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("locking stock rows: %w", err)
	}

	return stock, nil
}

func (t *pgStockTx) DecrementStock(ctx context.Context, id, quantity int64) error {
	query := `UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			  WHERE id = $2 AND stock_quantity >= $1`

	result, err := t.tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", id, mapPQError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", id, err)
	}

	// The row is locked, so no match means the guard refused a negative stock.
	if affected == 0 {
		return fmt.Errorf("decrementing stock for product %d: %w", id, ErrConstraintViolation)
	}

	return nil
}

func (t *pgStockTx) Commit() error {
	t.done = true

	return t.tx.Commit()
}

func (t *pgStockTx) Rollback() error {
	if t.done {
		return nil
	}

	t.done = true

	return t.tx.Rollback()
}
