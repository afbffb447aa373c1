package model

// Reservation records a guest's claim on one place of a tour.  It does
// not carry the tour ID; the ledger keeps that association in its
// indexes.
//
// Fields:
//  Reference – booking reference supplied by the guest.
//  Name      – display name of the guest.
type Reservation struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
}
