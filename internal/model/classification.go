package model

// Classification is a named vehicle category. New classifications start
// unapproved and stay invisible to public browsing until an admin approves
// them; rejection deletes the row outright.
//
// ApproverID records the admin who approved the record, not its creator.
// It is nil while the record is pending.
type Classification struct {
	ID         uint64  // classification.classification_id
	Name       string  // classification.classification_name
	Approved   bool    // classification.classification_approved
	ApproverID *uint64 // classification.account_id (nullable)
}
