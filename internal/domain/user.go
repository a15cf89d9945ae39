package domain

import "time"

// DefaultDisplayName is used when the identity provider has no display name for a subject
const DefaultDisplayName = "User"

// User Model
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	FirebaseUID   *string   `gorm:"size:128;uniqueIndex" json:"firebase_uid"`               // Provider subject id, nil for local-only accounts
	Name          string    `gorm:"size:255;not null" json:"name"`                          // Display name
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`             // Unique email
	PhotoURL      *string   `gorm:"type:text" json:"photo_url"`                             // Optional avatar
	Password      *string   `gorm:"size:255" json:"-"`                                      // Bcrypt hash, local accounts only
	RememberToken *string   `gorm:"size:100" json:"-"`                                      // Session remember token, never serialized
	Wallets       []Wallet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Wallet
	CreatedAt     time.Time `json:"created_at"`                                             // Record creation time
	UpdatedAt     time.Time `json:"updated_at"`                                             // Last update time
}

// Identity is a verified view of a principal as reported by the identity provider
type Identity struct {
	Subject  string // Provider subject id ("sub")
	Email    string // Email address
	Name     string // Display name, may be empty
	PhotoURL string // Avatar URL, may be empty
}

// DisplayName returns the provider name or the default literal when the provider has none
func (i Identity) DisplayName() string {
	if i.Name == "" {
		return DefaultDisplayName
	}
	return i.Name
}

// Differs reports whether the identity carries values that are not yet stored on u
func (i Identity) Differs(u *User) bool {
	if u.Name != i.DisplayName() || u.Email != i.Email {
		return true
	}
	stored := ""
	if u.PhotoURL != nil {
		stored = *u.PhotoURL
	}
	return stored != i.PhotoURL
}
