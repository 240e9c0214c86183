// internal/domain/order/entity.go
package order

import (
	"time"
)

// StatusPending is the status every draft starts with; it only changes on
// the commerce platform after the order is placed.
const StatusPending = "pending"

// MaxProgressStep is the last wizard position (Confirmation)
const MaxProgressStep = 3

// Draft represents the order under construction during checkout. Fields are
// populated incrementally as the user completes each step; the cart is read
// separately at estimate/create time, so the draft carries no product lines.
type Draft struct {
	PaymentMethod   string  `json:"paymentMethod"`
	DeliveryType    string  `json:"deliveryType"`
	ReceiverName    string  `json:"receiverName"`
	ReceiverPhone   string  `json:"receiverPhone"`
	ReceiverAddress string  `json:"receiverAddress"`
	Note            string  `json:"note"`
	IsFreeShip      bool    `json:"isFreeShip"`
	Status          string  `json:"status"`
	CityID          *int    `json:"cityId"`
	DistrictID      *int    `json:"districtId"`
	WardID          *int    `json:"wardId"`
	Total           float64 `json:"total"`
}

// DefaultDraft returns a draft with the documented defaults
func DefaultDraft() Draft {
	return Draft{
		Status: StatusPending,
	}
}

// DraftPatch is a partial draft for shallow merging. Nil fields leave the
// current value unchanged. The city/district/ward ids form a dependent
// chain; callers changing a parent must also reset the dependents, the merge
// itself does not.
type DraftPatch struct {
	PaymentMethod   *string  `json:"paymentMethod"`
	DeliveryType    *string  `json:"deliveryType"`
	ReceiverName    *string  `json:"receiverName"`
	ReceiverPhone   *string  `json:"receiverPhone"`
	ReceiverAddress *string  `json:"receiverAddress"`
	Note            *string  `json:"note"`
	IsFreeShip      *bool    `json:"isFreeShip"`
	Status          *string  `json:"status"`
	CityID          *int     `json:"cityId"`
	DistrictID      *int     `json:"districtId"`
	WardID          *int     `json:"wardId"`
	Total           *float64 `json:"total"`

	// A nil pointer means "unchanged", so nulling an id needs an explicit
	// flag. Used when a parent selection changes and its dependents must
	// be reset.
	ClearCityID     bool `json:"clearCityId,omitempty"`
	ClearDistrictID bool `json:"clearDistrictId,omitempty"`
	ClearWardID     bool `json:"clearWardId,omitempty"`
}

// ProgressStep denotes the current wizard position, persisted alongside the
// draft so a reload resumes at the same step
type ProgressStep struct {
	Current int `json:"current"`
}

// Snapshot is the persisted shape of a session's order draft and progress
type Snapshot struct {
	SessionID    string       `json:"sessionId"`
	Order        Draft        `json:"order"`
	ProgressStep ProgressStep `json:"progressStep"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// apply shallow-merges the patch into the draft
func (d *Draft) apply(patch DraftPatch) {
	if patch.PaymentMethod != nil {
		d.PaymentMethod = *patch.PaymentMethod
	}
	if patch.DeliveryType != nil {
		d.DeliveryType = *patch.DeliveryType
	}
	if patch.ReceiverName != nil {
		d.ReceiverName = *patch.ReceiverName
	}
	if patch.ReceiverPhone != nil {
		d.ReceiverPhone = *patch.ReceiverPhone
	}
	if patch.ReceiverAddress != nil {
		d.ReceiverAddress = *patch.ReceiverAddress
	}
	if patch.Note != nil {
		d.Note = *patch.Note
	}
	if patch.IsFreeShip != nil {
		d.IsFreeShip = *patch.IsFreeShip
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.CityID != nil {
		d.CityID = patch.CityID
	}
	if patch.DistrictID != nil {
		d.DistrictID = patch.DistrictID
	}
	if patch.WardID != nil {
		d.WardID = patch.WardID
	}
	if patch.Total != nil {
		d.Total = *patch.Total
	}
	if patch.ClearCityID {
		d.CityID = nil
	}
	if patch.ClearDistrictID {
		d.DistrictID = nil
	}
	if patch.ClearWardID {
		d.WardID = nil
	}
}
