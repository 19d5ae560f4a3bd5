package models

type PolicyHolder struct {
	VersionedModel
	FullName        string `gorm:"type:text;not null" json:"fullName"        validate:"required"`
	Address         string `gorm:"type:text;not null" json:"address"         validate:"required"`
	Email           string `gorm:"type:text;not null" json:"email"           validate:"required,email"`
	TelephoneNumber string `gorm:"type:text;not null" json:"telephoneNumber" validate:"required"`

	Insurances      []Insurance      `gorm:"foreignKey:PolicyHolderID" json:"insurances,omitempty"`
	InsuranceEvents []InsuranceEvent `gorm:"foreignKey:PolicyHolderID" json:"insuranceEvents,omitempty"`
}

func (PolicyHolder) TableName() string { return "policy_holders" }

// PolicyHolderRequest is the bind whitelist for create and edit. Fields not
// listed here are never written from a request body.
type PolicyHolderRequest struct {
	ID              int    `json:"id"`
	Version         int    `json:"version"`
	FullName        string `json:"fullName"`
	Address         string `json:"address"`
	Email           string `json:"email"`
	TelephoneNumber string `json:"telephoneNumber"`
}
