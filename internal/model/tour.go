package model

// Tour represents a bookable event with a fixed number of places.
// Tours are identified by a caller-assigned ID; the ledger never
// generates one.  Date is an opaque label and carries no calendar
// semantics.
//
// Fields:
//  ID          – caller-assigned identifier, unique among live tours.
//  Description – human-readable name of the tour.
//  Date        – date label as supplied by the caller.
//  Cost        – price in whole currency units.
//  Places      – capacity of the tour.
//  Reserved    – number of active reservations counted against Places.
type Tour struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Cost        int    `json:"cost"`
	Places      int    `json:"places"`
	Reserved    int    `json:"reserved"`
}

// Available returns the number of free places, or zero when the tour is
// full or overbooked after a capacity reduction.
func (t Tour) Available() int {
	if t.Reserved >= t.Places {
		return 0
	}
	return t.Places - t.Reserved
}
