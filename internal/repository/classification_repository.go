package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ravelor/dealer-inventory/internal/model"
)

const classificationColumns = "classification_id, classification_name, classification_approved, account_id"

// ClassificationRepo manages persistence for vehicle classifications.
type ClassificationRepo struct{ DB *sql.DB }

func NewClassificationRepo(db *sql.DB) *ClassificationRepo { return &ClassificationRepo{DB: db} }

func scanClassification(row *sql.Row) (model.Classification, error) {
	var cl model.Classification
	var approver sql.NullInt64
	err := row.Scan(&cl.ID, &cl.Name, &cl.Approved, &approver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Classification{}, ErrNotFound
		}
		return model.Classification{}, err
	}
	if approver.Valid {
		v := uint64(approver.Int64)
		cl.ApproverID = &v
	}
	return cl, nil
}

// Create inserts a classification in the pending state and returns the
// stored row.
func (r *ClassificationRepo) Create(ctx context.Context, name string) (model.Classification, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO classification (classification_name) VALUES (?)", name)
	if err != nil {
		return model.Classification{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Classification{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a classification regardless of approval state.
func (r *ClassificationRepo) GetByID(ctx context.Context, id uint64) (model.Classification, error) {
	return scanClassification(r.DB.QueryRowContext(ctx,
		"SELECT "+classificationColumns+" FROM classification WHERE classification_id=? LIMIT 1", id))
}

// ListApproved returns all approved classifications ordered by id.
func (r *ClassificationRepo) ListApproved(ctx context.Context) ([]model.Classification, error) {
	return r.list(ctx, true)
}

// ListPending returns all classifications awaiting review ordered by id.
func (r *ClassificationRepo) ListPending(ctx context.Context) ([]model.Classification, error) {
	return r.list(ctx, false)
}

func (r *ClassificationRepo) list(ctx context.Context, approved bool) ([]model.Classification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+classificationColumns+" FROM classification WHERE classification_approved=? ORDER BY classification_id ASC",
		approved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Classification{}
	for rows.Next() {
		var cl model.Classification
		var approver sql.NullInt64
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Approved, &approver); err != nil {
			return nil, err
		}
		if approver.Valid {
			v := uint64(approver.Int64)
			cl.ApproverID = &v
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

// SetApproval resolves a pending classification. Approval marks the row
// approved and records the approver; rejection deletes the row and returns
// its prior snapshot. A missing id yields ErrNotFound either way.
func (r *ClassificationRepo) SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.Classification, error) {
	if !approve {
		return r.delete(ctx, id)
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE classification SET classification_approved=TRUE, account_id=? WHERE classification_id=?",
		approverID, id); err != nil {
		return model.Classification{}, err
	}
	// RowsAffected cannot distinguish "missing" from "already approved by
	// the same admin", so existence comes from the re-select.
	return r.GetByID(ctx, id)
}

func (r *ClassificationRepo) delete(ctx context.Context, id uint64) (model.Classification, error) {
	snapshot, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Classification{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM classification WHERE classification_id=?", id)
	if err != nil {
		return model.Classification{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Classification{}, err
	}
	if n == 0 {
		// lost a race with a concurrent rejection
		return model.Classification{}, ErrNotFound
	}
	return snapshot, nil
}
