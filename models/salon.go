package models

// Branch is a physical location of a salon.
type Branch struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	AdminID string `json:"adminId,omitempty" bson:"admin_id,omitempty"` // designated branch admin, may equal the owner
}

// Salon is the tenant record consumed from the tenant collaborator.
// The engine only reads it to gate requests and compute notification fan-out.
type Salon struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	OwnerID  string   `json:"ownerId" bson:"owner_id"`
	Active   bool     `json:"active" bson:"active"`
	Branches []Branch `json:"branches,omitempty" bson:"branches,omitempty"`
}

// BranchAdmin returns the designated admin id for a branch, or "" if none.
func (s Salon) BranchAdmin(branchID string) string {
	for _, b := range s.Branches {
		if b.ID == branchID {
			return b.AdminID
		}
	}
	return ""
}
