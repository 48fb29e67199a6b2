package model

// InventoryItem is a single vehicle record. It follows the same
// pending -> approved/deleted lifecycle as Classification, scoped per item.
type InventoryItem struct {
	ID               uint64  // inventory.inv_id
	ClassificationID uint64  // inventory.classification_id (required FK)
	Make             string  // inventory.inv_make
	Model            string  // inventory.inv_model
	Year             uint16  // inventory.inv_year
	Description      string  // inventory.inv_description
	Image            string  // inventory.inv_image
	Thumbnail        string  // inventory.inv_thumbnail
	PriceCents       uint64  // inventory.inv_price (cents)
	Miles            uint32  // inventory.inv_miles
	Color            string  // inventory.inv_color
	Approved         bool    // inventory.inv_approved
	ApproverID       *uint64 // inventory.account_id (nullable, approving admin)
}
