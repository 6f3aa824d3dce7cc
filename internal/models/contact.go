package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Contact is an attendee drawn from the Contacts collection.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	FullName    string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	CreateBy    primitive.ObjectID `bson:"createBy,omitempty" json:"createBy,omitempty"`
	Deleted     bool               `bson:"deleted" json:"deleted"`
}

// Lead is an attendee drawn from the Leads collection.
type Lead struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	LeadName        string             `bson:"leadName,omitempty" json:"leadName,omitempty"`
	LeadEmail       string             `bson:"leadEmail,omitempty" json:"leadEmail,omitempty"`
	LeadPhoneNumber string             `bson:"leadPhoneNumber,omitempty" json:"leadPhoneNumber,omitempty"`
	LeadStatus      string             `bson:"leadStatus,omitempty" json:"leadStatus,omitempty"`
	CreateBy        primitive.ObjectID `bson:"createBy,omitempty" json:"createBy,omitempty"`
	Deleted         bool               `bson:"deleted" json:"deleted"`
}
