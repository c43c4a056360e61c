package models

import (
	"context"
	"database/sql"
)

const productColumns = `id, name, description, price, stock, image_url, published, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*Product, error) {
	var p Product
	var desc, image sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &image, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = stringPtr(desc)
	p.ImageURL = stringPtr(image)
	return &p, nil
}

func InsertProduct(ctx context.Context, db *sql.DB, p *Product) error {
	_, err := db.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, nullString(p.Description), p.Price, p.Stock, nullString(p.ImageURL), p.Published, p.CreatedAt, p.UpdatedAt)
	return err
}

func GetProduct(ctx context.Context, db *sql.DB, id string) (*Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// UpdateProduct writes every editable column of p and leaves created_at alone.
func UpdateProduct(ctx context.Context, db *sql.DB, p *Product) error {
	res, err := db.ExecContext(ctx, `UPDATE products SET name = ?, description = ?, price = ?, stock = ?, image_url = ?,
        published = ?, updated_at = ? WHERE id = ?`,
		p.Name, nullString(p.Description), p.Price, p.Stock, nullString(p.ImageURL), p.Published, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func DeleteProduct(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func ListProducts(ctx context.Context, db *sql.DB) ([]Product, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func CountProducts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
