package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventStatus is a closed set; values are stored as integers.
type EventStatus int

const (
	EventStatusNew EventStatus = iota
	EventStatusInProgress
	EventStatusApproved
	EventStatusRejected
	EventStatusClosed
)

var eventStatusNames = map[EventStatus]string{
	EventStatusNew:        "New",
	EventStatusInProgress: "InProgress",
	EventStatusApproved:   "Approved",
	EventStatusRejected:   "Rejected",
	EventStatusClosed:     "Closed",
}

// EventStatuses returns the declared members in display order, for
// populating selection forms.
func EventStatuses() []EventStatus {
	return []EventStatus{
		EventStatusNew,
		EventStatusInProgress,
		EventStatusApproved,
		EventStatusRejected,
		EventStatusClosed,
	}
}

func (s EventStatus) Valid() bool {
	_, ok := eventStatusNames[s]
	return ok
}

func (s EventStatus) String() string {
	if name, ok := eventStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EventStatus(%d)", int(s))
}

func ParseEventStatus(name string) (EventStatus, bool) {
	for s, n := range eventStatusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

func (s EventStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *EventStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseEventStatus(name)
	if !ok {
		return fmt.Errorf("unknown event status %q", name)
	}
	*s = parsed
	return nil
}

type InsuranceEvent struct {
	VersionedModel
	PolicyHolderID int         `gorm:"not null;index"        json:"policyHolderId" validate:"required"`
	InsuranceID    int         `gorm:"not null;index"        json:"insuranceId"    validate:"required"`
	EventDate      time.Time   `gorm:"not null"              json:"eventDate"`
	Description    string      `gorm:"type:text;not null"    json:"description"    validate:"required"`
	EventStatus    EventStatus `gorm:"type:integer;not null" json:"eventStatus"`

	PolicyHolder *PolicyHolder `gorm:"foreignKey:PolicyHolderID" json:"policyHolder,omitempty"`
	Insurance    *Insurance    `gorm:"foreignKey:InsuranceID"    json:"insurance,omitempty"`
}

func (InsuranceEvent) TableName() string { return "insurance_events" }

// InsuranceEventRequest is the bind whitelist for create and edit.
type InsuranceEventRequest struct {
	ID             int    `json:"id"`
	Version        int    `json:"version"`
	PolicyHolderID int    `json:"policyHolderId"`
	InsuranceID    int    `json:"insuranceId"`
	EventDate      string `json:"eventDate"`
	Description    string `json:"description"`
	EventStatus    string `json:"eventStatus"`
}
