package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ravelor/dealer-inventory/internal/model"
)

const inventoryColumns = "inv_id, classification_id, inv_make, inv_model, inv_year, inv_description, inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, inv_approved, account_id"

// InventoryRepo manages persistence for vehicle records.
type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

func scanInventory(row *sql.Row) (model.InventoryItem, error) {
	var it model.InventoryItem
	var approver sql.NullInt64
	err := row.Scan(&it.ID, &it.ClassificationID, &it.Make, &it.Model, &it.Year,
		&it.Description, &it.Image, &it.Thumbnail, &it.PriceCents, &it.Miles,
		&it.Color, &it.Approved, &approver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InventoryItem{}, ErrNotFound
		}
		return model.InventoryItem{}, err
	}
	if approver.Valid {
		v := uint64(approver.Int64)
		it.ApproverID = &v
	}
	return it, nil
}

// Create inserts a vehicle in the pending state and populates the struct
// with the stored row, including the generated id.
func (r *InventoryRepo) Create(ctx context.Context, it *model.InventoryItem) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO inventory (classification_id, inv_make, inv_model, inv_year, inv_description,
		 inv_image, inv_thumbnail, inv_price, inv_miles, inv_color) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		it.ClassificationID, it.Make, it.Model, it.Year, it.Description,
		it.Image, it.Thumbnail, it.PriceCents, it.Miles, it.Color)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*it = stored
	return nil
}

// GetByID fetches a vehicle regardless of approval state. Management views
// use this; public browsing goes through GetApproved.
func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return scanInventory(r.DB.QueryRowContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE inv_id=? LIMIT 1", id))
}

// GetApproved fetches a vehicle only if it has passed review. Pending
// records are not visible through public browsing paths.
func (r *InventoryRepo) GetApproved(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return scanInventory(r.DB.QueryRowContext(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE inv_id=? AND inv_approved=TRUE LIMIT 1", id))
}

// ListByClassification returns the approved vehicles of one classification
// ordered by id.
func (r *InventoryRepo) ListByClassification(ctx context.Context, classificationID uint64) ([]model.InventoryItem, error) {
	return r.list(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE classification_id=? AND inv_approved=TRUE ORDER BY inv_id ASC",
		classificationID)
}

// ListPending returns all vehicles awaiting review ordered by id.
func (r *InventoryRepo) ListPending(ctx context.Context) ([]model.InventoryItem, error) {
	return r.list(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE inv_approved=FALSE ORDER BY inv_id ASC")
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]model.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.InventoryItem{}
	for rows.Next() {
		var it model.InventoryItem
		var approver sql.NullInt64
		if err := rows.Scan(&it.ID, &it.ClassificationID, &it.Make, &it.Model, &it.Year,
			&it.Description, &it.Image, &it.Thumbnail, &it.PriceCents, &it.Miles,
			&it.Color, &it.Approved, &approver); err != nil {
			return nil, err
		}
		if approver.Valid {
			v := uint64(approver.Int64)
			it.ApproverID = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a vehicle and returns the updated
// row. The approval flag and approver are untouched.
func (r *InventoryRepo) Update(ctx context.Context, it *model.InventoryItem) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE inventory SET classification_id=?, inv_make=?, inv_model=?, inv_year=?, inv_description=?,
		 inv_image=?, inv_thumbnail=?, inv_price=?, inv_miles=?, inv_color=? WHERE inv_id=?`,
		it.ClassificationID, it.Make, it.Model, it.Year, it.Description,
		it.Image, it.Thumbnail, it.PriceCents, it.Miles, it.Color, it.ID)
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, it.ID)
	if err != nil {
		return err
	}
	*it = stored
	return nil
}

// Delete removes a vehicle. Deleting an id that no longer exists reports
// ErrNotFound.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM inventory WHERE inv_id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproval resolves a pending vehicle. Approval marks the row approved
// and records the approver; rejection deletes the row and returns its prior
// snapshot. A missing id yields ErrNotFound either way.
func (r *InventoryRepo) SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.InventoryItem, error) {
	if !approve {
		snapshot, err := r.GetByID(ctx, id)
		if err != nil {
			return model.InventoryItem{}, err
		}
		if err := r.Delete(ctx, id); err != nil {
			return model.InventoryItem{}, err
		}
		return snapshot, nil
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE inventory SET inv_approved=TRUE, account_id=? WHERE inv_id=?",
		approverID, id); err != nil {
		return model.InventoryItem{}, err
	}
	return r.GetByID(ctx, id)
}
