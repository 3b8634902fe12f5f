package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DepartmentRepository reads the departments table.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// ResolveIDs maps department names to their row ids.
func (r *DepartmentRepository) ResolveIDs(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM departments`); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	ids := make(map[string]int64, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}
