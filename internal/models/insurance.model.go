package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// InsuranceType is a closed set; values are stored as integers.
type InsuranceType int

const (
	InsuranceTypeProperty InsuranceType = iota
	InsuranceTypeAuto
	InsuranceTypeLife
	InsuranceTypeTravel
	InsuranceTypeLiability
)

var insuranceTypeNames = map[InsuranceType]string{
	InsuranceTypeProperty:  "Property",
	InsuranceTypeAuto:      "Auto",
	InsuranceTypeLife:      "Life",
	InsuranceTypeTravel:    "Travel",
	InsuranceTypeLiability: "Liability",
}

// InsuranceTypes returns the declared members in display order, for
// populating selection forms.
func InsuranceTypes() []InsuranceType {
	return []InsuranceType{
		InsuranceTypeProperty,
		InsuranceTypeAuto,
		InsuranceTypeLife,
		InsuranceTypeTravel,
		InsuranceTypeLiability,
	}
}

func (t InsuranceType) Valid() bool {
	_, ok := insuranceTypeNames[t]
	return ok
}

func (t InsuranceType) String() string {
	if name, ok := insuranceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("InsuranceType(%d)", int(t))
}

func ParseInsuranceType(name string) (InsuranceType, bool) {
	for t, n := range insuranceTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

func (t InsuranceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InsuranceType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseInsuranceType(name)
	if !ok {
		return fmt.Errorf("unknown insurance type %q", name)
	}
	*t = parsed
	return nil
}

type Insurance struct {
	VersionedModel
	PolicyHolderID int           `gorm:"not null;index"     json:"policyHolderId" validate:"required"`
	InsuranceType  InsuranceType `gorm:"type:integer;not null" json:"insuranceType"`
	Amount         float64       `gorm:"not null"           json:"amount"         validate:"gte=0"`
	StartDate      time.Time     `gorm:"not null"           json:"startDate"`
	EndDate        time.Time     `gorm:"not null"           json:"endDate"`

	PolicyHolder    *PolicyHolder    `gorm:"foreignKey:PolicyHolderID" json:"policyHolder,omitempty"`
	InsuranceEvents []InsuranceEvent `gorm:"foreignKey:InsuranceID"    json:"insuranceEvents,omitempty"`
}

func (Insurance) TableName() string { return "insurances" }

// InsuranceRequest is the bind whitelist for create and edit. Dates arrive
// as form strings and are parsed at the boundary.
type InsuranceRequest struct {
	ID             int     `json:"id"`
	Version        int     `json:"version"`
	PolicyHolderID int     `json:"policyHolderId"`
	InsuranceType  string  `json:"insuranceType"`
	Amount         float64 `json:"amount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
}

// InsuranceOption is the dependent-selector projection returned by
// GetInsurancesByPolicyHolder.
type InsuranceOption struct {
	ID            int    `json:"id"`
	InsuranceType string `json:"insuranceType"`
}
