package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO orders (id, name, phone, email, total, created_at, updated_at)
        VALUES (:id, :name, :phone, :email, :total, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return err
	}

	lineQuery := `
        INSERT INTO order_lines (order_id, lesson_id, subject, price, quantity)
        VALUES (:order_id, :lesson_id, :subject, :price, :quantity)
    `
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
		if _, err := tx.NamedExecContext(ctx, lineQuery, o.Lines[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &order.Lines, `SELECT * FROM order_lines WHERE order_id = $1 ORDER BY lesson_id ASC`, id)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Email != "" {
		conditions = append(conditions, "email = :email")
		args["email"] = f.Email
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}
