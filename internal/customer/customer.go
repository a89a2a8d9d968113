package customer

import "time"

// Customer is a directory record the UI attaches to a sale for loyalty
// and history. The sales core only ever stores the ID.
type Customer struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	LoyaltyPoints int64     `bson:"loyalty_points" json:"loyalty_points"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
