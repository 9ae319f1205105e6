package domain

import (
	"fmt"
	"strings"
)

// Checklist is a named todo list attached to a trip's information document.
type Checklist struct {
	ID    int             `json:"id" bson:"id"`
	Name  string          `json:"name" bson:"name"`
	Items []ChecklistItem `json:"items" bson:"items"`
}

// ChecklistItem is one entry of a Checklist.
type ChecklistItem struct {
	ID      int    `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Checked bool   `json:"checked" bson:"checked"`
}

// ChecklistInput carries the user-supplied fields for a new checklist or item.
type ChecklistInput struct {
	Name string
}

// Validate returns an error wrapping ErrValidation when the name is blank.
func (in ChecklistInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

// NextChecklistID returns one more than the highest id in lists, or 1.
func NextChecklistID(lists []Checklist) int {
	next := 1
	for _, c := range lists {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

// NextItemID returns one more than the highest item id in c, or 1.
func (c Checklist) NextItemID() int {
	next := 1
	for _, it := range c.Items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

// FindChecklist returns the index of the checklist with the given id, or -1.
func FindChecklist(lists []Checklist, id int) int {
	for i, c := range lists {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// FindItem returns the index of the item with the given id, or -1.
func (c Checklist) FindItem(id int) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
