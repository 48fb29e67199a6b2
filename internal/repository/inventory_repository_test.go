package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func inventoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"inv_id", "classification_id", "inv_make", "inv_model", "inv_year",
		"inv_description", "inv_image", "inv_thumbnail", "inv_price",
		"inv_miles", "inv_color", "inv_approved", "account_id",
	})
}

func TestInventoryApproveRecordsApprover(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE inventory SET inv_approved").
		WithArgs(9, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM inventory WHERE inv_id").
		WithArgs(3).
		WillReturnRows(inventoryRows().
			AddRow(3, 1, "Ford", "Mustang", 2019, "fast", "/img/m.jpg", "/img/m-tn.jpg", 3550000, 12000, "red", true, 9))

	repo := NewInventoryRepo(db)
	item, err := repo.SetApproval(context.Background(), 3, 9, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !item.Approved || item.ApproverID == nil || *item.ApproverID != 9 {
		t.Fatalf("approval not recorded: %+v", item)
	}
}

func TestInventoryDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM inventory").
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInventoryRepo(db)
	if err := repo.Delete(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
