package cart

import "strings"

// OwnerKey selects the durable slot a cart lives in.
type OwnerKey string

const GuestOwner OwnerKey = "guest"

const slotPrefix = "cart_"

// OwnerFor returns the owner key for an authenticated user id, or GuestOwner
// when the id is empty.
func OwnerFor(userID string) OwnerKey {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return GuestOwner
	}
	return OwnerKey(userID)
}

func (o OwnerKey) IsGuest() bool {
	return o == GuestOwner
}

// SlotKey is the durable key for the owner's cart: "cart_" + owner.
func SlotKey(owner OwnerKey) string {
	return slotPrefix + string(owner)
}
