package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

// AgeUnset marks a profile whose owner has not filled in an age.
const AgeUnset = "N/A"

const DefaultBio = "Hello! I'm new here."

type User struct {
	ID              primitive.ObjectID   `json:"_id" bson:"_id"`
	Name            string               `json:"name" bson:"name" validate:"required"`
	Email           string               `json:"email" bson:"email" validate:"required,email"`
	Password        string               `json:"-" bson:"password" validate:"required,min=6"`
	Bio             string               `json:"bio" bson:"bio"`
	Age             string               `json:"age" bson:"age"`
	Schools         []string             `json:"schools" bson:"schools"`
	Role            string               `json:"role" bson:"role"`
	Connections     []primitive.ObjectID `json:"connections" bson:"connections"`
	PendingRequests []primitive.ObjectID `json:"pendingRequests" bson:"pendingRequests"`
	SentRequests    []primitive.ObjectID `json:"sentRequests" bson:"sentRequests"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	IsActive        bool                 `json:"isActive" bson:"isActive"`
	LastActive      time.Time            `json:"lastActive" bson:"lastActive"`
}

// NewUser fills in the registration defaults for a fresh account.
func NewUser(name, email, passwordHash string) User {
	return User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Email:           email,
		Password:        passwordHash,
		Bio:             DefaultBio,
		Age:             AgeUnset,
		Schools:         []string{},
		Role:            RoleStudent,
		Connections:     []primitive.ObjectID{},
		PendingRequests: []primitive.ObjectID{},
		SentRequests:    []primitive.ObjectID{},
		CreatedAt:       time.Now(),
	}
}

// PublicProfile is the view of a user exposed to other members: no email,
// no credentials, no request lists.
type PublicProfile struct {
	ID      primitive.ObjectID `json:"_id"`
	Name    string             `json:"name"`
	Bio     string             `json:"bio"`
	Age     string             `json:"age"`
	Schools []string           `json:"schools"`
	Role    string             `json:"role"`
}

func (u User) Public() PublicProfile {
	p := PublicProfile{
		ID:      u.ID,
		Name:    u.Name,
		Bio:     u.Bio,
		Age:     u.Age,
		Schools: u.Schools,
		Role:    u.Role,
	}
	if p.Age == "" {
		p.Age = AgeUnset
	}
	if p.Role == "" {
		p.Role = RoleStudent
	}
	if p.Schools == nil {
		p.Schools = []string{}
	}
	return p
}

// HasConnection reports whether other is an accepted connection of u.
func (u User) HasConnection(other primitive.ObjectID) bool {
	return containsID(u.Connections, other)
}

// HasPendingFrom reports whether other has an unresolved request to u.
func (u User) HasPendingFrom(other primitive.ObjectID) bool {
	return containsID(u.PendingRequests, other)
}

// HasSentTo reports whether u has an unresolved request to other.
func (u User) HasSentTo(other primitive.ObjectID) bool {
	return containsID(u.SentRequests, other)
}

// Linked reports whether any relationship, accepted or unresolved, exists
// between u and other. Such users are excluded from u's directory results.
func (u User) Linked(other primitive.ObjectID) bool {
	return u.HasConnection(other) || u.HasPendingFrom(other) || u.HasSentTo(other)
}

func ValidRole(role string) bool {
	return role == RoleTeacher || role == RoleStudent
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
