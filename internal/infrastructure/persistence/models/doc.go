// Package models contains the Firestore document shapes used by the repositories.
// These models are separate from domain entities to keep the domain layer free of
// storage concerns.
//
// Documents are written by more than one client over time, so readable fields
// that have been stored with different types are held as interface values and
// converted on the way to the domain:
// - timestamps may be Firestore timestamps, RFC 3339 strings or epoch milliseconds
// - prices may be numbers or numeric strings
// - colors may be {name, hex} maps or bare names
//
// Each model provides ToDomain and a FromDomain constructor or field map.
package models
