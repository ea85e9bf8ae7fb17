package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles an account can hold. The catalog only distinguishes store operators
// from regular shoppers, so the enum stays small.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	DefaultRole = RoleUser
)

// ValidRole reports whether role is one of the accepted role names.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Account is the authenticated identity stored in the "accounts" collection.
// PasswordHash and the reset-OTP pair are excluded from default projections
// by the store and never serialized to clients.
//
// ResetOTPHash and ResetOTPExpiresAt are both set or both unset. An expired
// pair is treated as absent by every read path; expiry is lazy, nothing
// sweeps the fields.
type Account struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password,omitempty" json:"-"`
	Role              string             `bson:"role" json:"role"`
	ResetOTPHash      string             `bson:"resetPasswordOTP,omitempty" json:"-"`
	ResetOTPExpiresAt *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasActiveResetOTP reports whether a reset OTP is pending and not expired
// at the given instant.
func (a *Account) HasActiveResetOTP(now time.Time) bool {
	if a.ResetOTPHash == "" || a.ResetOTPExpiresAt == nil {
		return false
	}
	return now.Before(*a.ResetOTPExpiresAt)
}

// Sanitized returns a copy with every secret field stripped, safe to hand to
// response encoding.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	a.ResetOTPHash = ""
	a.ResetOTPExpiresAt = nil
	return a
}
