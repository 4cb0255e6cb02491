package main

import (
	"portalscene/internal/engine3D"
)

// Inventory is what the player carries between memories. One item is in hand.
type Inventory struct {
	items []*engine3D.Prop
	index int
}

// Add puts item in hand.
func (inv *Inventory) Add(item *engine3D.Prop) {
	inv.items = append(inv.items, item)
	inv.index = len(inv.items) - 1
}

// Held is the item in hand, or nil.
func (inv *Inventory) Held() *engine3D.Prop {
	if len(inv.items) == 0 {
		return nil
	}
	return inv.items[inv.index]
}

// Take removes the item in hand and selects the one before it.
func (inv *Inventory) Take() *engine3D.Prop {
	item := inv.Held()
	if item == nil {
		return nil
	}
	inv.items = append(inv.items[:inv.index], inv.items[inv.index+1:]...)
	if inv.index > 0 {
		inv.index--
	}
	return item
}

// Cycle moves the hand by step, wrapping around.
func (inv *Inventory) Cycle(step int) {
	n := len(inv.items)
	if n == 0 {
		return
	}
	inv.index = ((inv.index+step)%n + n) % n
}

func (inv *Inventory) Len() int { return len(inv.items) }

// Index is the position of the item in hand.
func (inv *Inventory) Index() int { return inv.index }

func (inv *Inventory) Carries(name string) bool {
	for _, item := range inv.items {
		if item.Name == name {
			return true
		}
	}
	return false
}
