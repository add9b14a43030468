// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "lookbook/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where an InstallationID is expected.
type (
	UserID         uuid.UUID
	InstallationID uuid.UUID
)

// ProductID is the document identifier of a catalog product. Product documents
// keep whatever identifier the catalog seed assigned them, so this is a plain
// string rather than a UUID.
type ProductID string

// New functions - use when minting fresh identities.

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewInstallationID() InstallationID { return InstallationID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseInstallationID(s string) (InstallationID, error) {
	id, err := parseUUID(s, "installation ID")
	return InstallationID(id), err
}

func ParseProductID(s string) (ProductID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "product ID cannot be empty")
	}
	return ProductID(s), nil
}

// String methods - for logging and debugging.

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id InstallationID) String() string { return uuid.UUID(id).String() }
func (id ProductID) String() string      { return string(id) }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id InstallationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return id, nil
}
