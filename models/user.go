package models

import "time"

// User roles
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	LastLogin time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
}
