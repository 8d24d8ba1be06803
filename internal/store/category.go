package store

import (
	"context"
	"fmt"

	"rental-market/internal/database"
	"rental-market/internal/model"
)

func GetCategoryByID(ctx context.Context, db database.DB, id int) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRow(ctx,
		`SELECT id, name, description FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, fmt.Errorf("GetCategoryByID: %w", translate(err))
	}
	return c, nil
}

func ListCategories(ctx context.Context, db database.DB) ([]model.Category, error) {
	rows, err := db.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("ListCategories: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	return out, nil
}

func CreateCategory(ctx context.Context, db database.DB, c *model.Category) error {
	err := db.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name,
		c.Description,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("CreateCategory: %w", translate(err))
	}
	return nil
}
