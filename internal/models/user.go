package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the creator record joined into meetings. Only the fields the
// meeting views read are mapped.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
	Deleted   *bool              `bson:"deleted,omitempty" json:"deleted,omitempty"`
}

// Active reports whether the user carries an explicit deleted=false, the
// only state the meeting list joins against.
func (u User) Active() bool {
	return u.Deleted != nil && !*u.Deleted
}
