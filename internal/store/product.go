package store

import (
	"context"
	"fmt"

	"rental-market/internal/database"
	"rental-market/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductScope 決定呼叫者可見的商品範圍：All 為 true 時不限擁有者，否則僅限 OwnerID
type ProductScope struct {
	All     bool
	OwnerID int
}

// ScopeFor 依角色建立查詢範圍
func ScopeFor(userID int, role model.Role) ProductScope {
	return ProductScope{All: role.IsStaff(), OwnerID: userID}
}

const productColumns = `id, name, description, category_id, is_available, date_added, owner_id`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CategoryID,
		&p.IsAvailable,
		&p.DateAdded,
		&p.OwnerID,
	)
}

func queryProducts(ctx context.Context, db database.DB, sql string, args ...any) ([]model.Product, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListProducts 回傳範圍內可租借的商品，依名稱排序
func ListProducts(ctx context.Context, db database.DB, scope ProductScope) ([]model.Product, error) {
	ps, err := queryProducts(ctx, db,
		`SELECT `+productColumns+` FROM products
		 WHERE is_available AND ($1::boolean OR owner_id = $2)
		 ORDER BY name, id`,
		scope.All,
		scope.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return ps, nil
}

// SearchProducts 名稱不分大小寫包含 query
func SearchProducts(ctx context.Context, db database.DB, scope ProductScope, query string) ([]model.Product, error) {
	ps, err := queryProducts(ctx, db,
		`SELECT `+productColumns+` FROM products
		 WHERE is_available AND ($1::boolean OR owner_id = $2)
		   AND strpos(lower(name), lower($3)) > 0
		 ORDER BY name, id`,
		scope.All,
		scope.OwnerID,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("SearchProducts: %w", err)
	}
	return ps, nil
}

func ListCategoryProducts(ctx context.Context, db database.DB, scope ProductScope, categoryID int) ([]model.Product, error) {
	ps, err := queryProducts(ctx, db,
		`SELECT `+productColumns+` FROM products
		 WHERE is_available AND ($1::boolean OR owner_id = $2)
		   AND category_id = $3
		 ORDER BY name, id`,
		scope.All,
		scope.OwnerID,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListCategoryProducts: %w", err)
	}
	return ps, nil
}

// GetProduct 範圍外的商品與不存在的商品同樣回傳 ErrNotFound
func GetProduct(ctx context.Context, db database.DB, scope ProductScope, id int) (*model.Product, error) {
	p := &model.Product{}
	row := db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE id = $1 AND ($2::boolean OR owner_id = $3)`,
		id,
		scope.All,
		scope.OwnerID,
	)
	if err := scanProduct(row, p); err != nil {
		return nil, fmt.Errorf("GetProduct: %w", translate(err))
	}
	return p, nil
}

func CreateProduct(ctx context.Context, db database.DB, p *model.Product) error {
	row := db.QueryRow(ctx,
		`INSERT INTO products (name, description, category_id, is_available, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, date_added`,
		p.Name,
		p.Description,
		p.CategoryID,
		p.IsAvailable,
		p.OwnerID,
	)
	if err := row.Scan(&p.ID, &p.DateAdded); err != nil {
		return fmt.Errorf("CreateProduct: %w", translate(err))
	}
	return nil
}

func UpdateProduct(ctx context.Context, db database.DB, p *model.Product) error {
	tag, err := db.Exec(ctx,
		`UPDATE products
		 SET name = $1, description = $2, category_id = $3, is_available = $4, owner_id = $5
		 WHERE id = $6`,
		p.Name,
		p.Description,
		p.CategoryID,
		p.IsAvailable,
		p.OwnerID,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProduct: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateProduct: %w", ErrNotFound)
	}
	return nil
}

// DeleteProduct 實際刪除資料列
func DeleteProduct(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProduct: %w", ErrNotFound)
	}
	return nil
}
