// Package auth implements the credential subsystem: bcrypt password hashing,
// signed bearer-token issuance and verification, the one-time-passcode reset
// flow, and the sign-up/sign-in orchestration on top of an AccountStore.
//
// The package performs no HTTP work. Handlers translate its sentinel errors
// into status codes; everything here speaks domain errors only.
package auth
