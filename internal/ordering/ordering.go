// Package ordering keeps the videos of a course on a dense 0-based position
// sequence. Callers persist whatever the functions here report as changed.
package ordering

import "fmt"

// Item is anything that has an identity and a position within its course.
type Item struct {
	ID       string
	Position int
}

// Move is one position assignment produced by a reorder or compaction.
type Move struct {
	ID       string
	Position int
}

// ErrOutOfRange is returned when a requested position is outside [0, count-1].
type ErrOutOfRange struct {
	Position int
	Count    int
}

func (e *ErrOutOfRange) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("position %d is out of range: course has no videos", e.Position)
	}
	return fmt.Sprintf("position %d is out of range [0, %d]", e.Position, e.Count-1)
}

// Next returns the position for a video appended after the given siblings.
func Next(items []Item) int {
	next := 0
	for _, it := range items {
		if it.Position+1 > next {
			next = it.Position + 1
		}
	}
	return next
}

// Reorder moves targetID to newPosition, shifting every sibling between the old
// and the new slot by exactly one. It returns the moves to apply, the target's
// own move last. Moving to the current position returns no moves.
func Reorder(items []Item, targetID string, newPosition int) ([]Move, error) {
	if newPosition < 0 || newPosition >= len(items) {
		return nil, &ErrOutOfRange{Position: newPosition, Count: len(items)}
	}

	oldPosition := -1
	for _, it := range items {
		if it.ID == targetID {
			oldPosition = it.Position
			break
		}
	}
	if oldPosition < 0 {
		return nil, fmt.Errorf("item %s is not part of this ordering", targetID)
	}
	if newPosition == oldPosition {
		return nil, nil
	}

	var moves []Move
	for _, it := range items {
		if it.ID == targetID {
			continue
		}
		switch {
		case newPosition < oldPosition && it.Position >= newPosition && it.Position < oldPosition:
			moves = append(moves, Move{ID: it.ID, Position: it.Position + 1})
		case newPosition > oldPosition && it.Position > oldPosition && it.Position <= newPosition:
			moves = append(moves, Move{ID: it.ID, Position: it.Position - 1})
		}
	}

	return append(moves, Move{ID: targetID, Position: newPosition}), nil
}

// CloseGap returns the moves that close the hole left by removing the item at
// removedPosition from items (items must no longer contain it).
func CloseGap(items []Item, removedPosition int) []Move {
	var moves []Move
	for _, it := range items {
		if it.Position > removedPosition {
			moves = append(moves, Move{ID: it.ID, Position: it.Position - 1})
		}
	}
	return moves
}

// Apply writes moves back onto items in place.
func Apply(items []Item, moves []Move) {
	byID := make(map[string]int, len(moves))
	for _, m := range moves {
		byID[m.ID] = m.Position
	}
	for i := range items {
		if p, ok := byID[items[i].ID]; ok {
			items[i].Position = p
		}
	}
}

// Dense reports whether the positions of items are exactly {0, ..., n-1}.
func Dense(items []Item) bool {
	seen := make([]bool, len(items))
	for _, it := range items {
		if it.Position < 0 || it.Position >= len(items) || seen[it.Position] {
			return false
		}
		seen[it.Position] = true
	}
	return true
}
