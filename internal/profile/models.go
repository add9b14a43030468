package profile

import (
	"time"

	"lookbook/internal/docstore"
	dErrors "lookbook/pkg/domain-errors"
)

// Profile is the typed user profile record. Documents coming back from the
// document store are validated into this shape at the read boundary; nothing
// downstream handles raw documents.
type Profile struct {
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

const usersCollection = "users"

// fromDocument validates a raw users document into a Profile.
func fromDocument(doc docstore.Document) (*Profile, error) {
	fullName, ok := doc["fullName"].(string)
	if !ok || fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "profile document missing fullName")
	}
	email, ok := doc["email"].(string)
	if !ok || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "profile document missing email")
	}

	p := &Profile{FullName: fullName, Email: email}
	if raw, ok := doc["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			p.CreatedAt = t
		}
	}
	if raw, ok := doc["lastSeen"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			p.LastSeen = t
		}
	}
	return p, nil
}

func (p *Profile) document() docstore.Document {
	return docstore.Document{
		"fullName":  p.FullName,
		"email":     p.Email,
		"createdAt": p.CreatedAt.Format(time.RFC3339),
		"lastSeen":  p.LastSeen.Format(time.RFC3339),
	}
}
