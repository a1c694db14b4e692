package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, l *model.Lesson) error {
	query := `
        INSERT INTO lessons (subject, location, price, spaces, icon, image_url, created_at, updated_at)
        VALUES (:subject, :location, :price, :spaces, :icon, :image_url, :created_at, :updated_at)
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, l)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return rows.Scan(&l.ID)
	}
	return errors.New("insert lesson returned no id")
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Lesson, error) {
	var lesson model.Lesson
	query := `SELECT * FROM lessons WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &lesson, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lesson, nil
}

// sortColumns whitelists ORDER BY targets; anything else falls back to subject.
var sortColumns = map[string]string{
	"subject":  "subject",
	"location": "location",
	"price":    "price",
	"spaces":   "spaces",
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LessonFilters) ([]model.Lesson, int, error) {
	var lessons []model.Lesson
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(subject ILIKE :search OR location ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.Location != "" {
		conditions = append(conditions, "location = :location")
		args["location"] = f.Location
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM lessons" + whereClause

	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "id ASC"
	if col, ok := sortColumns[f.SortBy]; ok {
		dir := "ASC"
		if strings.EqualFold(f.SortDir, "desc") {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s, id ASC", col, dir)
	}

	query := "SELECT * FROM lessons" + whereClause + " ORDER BY " + orderBy

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

	err = nstmt.SelectContext(ctx, &lessons, args)
	if err != nil {
		return nil, 0, err
	}

	return lessons, count, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.SpaceMovement) error {
	query := `
        INSERT INTO space_movements (id, lesson_id, movement_type, spaces_change, spaces_before, spaces_after, reference_type, reference_id, notes, created_at)
        VALUES (:id, :lesson_id, :movement_type, :spaces_change, :spaces_before, :spaces_after, :reference_type, :reference_id, :notes, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.SpaceMovement, int, error) {
	var movements []model.SpaceMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.LessonID != 0 {
		conditions = append(conditions, "lesson_id = :lesson_id")
		args["lesson_id"] = f.LessonID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM space_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM space_movements" + whereClause + " ORDER BY created_at DESC"
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

	err = nstmt.SelectContext(ctx, &movements, args)
	if err != nil {
		return nil, 0, err
	}

	return movements, count, nil
}

// SetSpacesWithMovement applies the new capacity and its audit row in a
// single transaction so the movement trail never drifts from the lessons
// table.
func (r *PGRepository) SetSpacesWithMovement(ctx context.Context, l *model.Lesson, m *model.SpaceMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE lessons
        SET spaces = :spaces,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, updateQuery, l); err != nil {
		return err
	}

	movementQuery := `
        INSERT INTO space_movements (id, lesson_id, movement_type, spaces_change, spaces_before, spaces_after, reference_type, reference_id, notes, created_at)
        VALUES (:id, :lesson_id, :movement_type, :spaces_change, :spaces_before, :spaces_after, :reference_type, :reference_id, :notes, :created_at)
    `
	if _, err := tx.NamedExecContext(ctx, movementQuery, m); err != nil {
		return err
	}

	return tx.Commit()
}
