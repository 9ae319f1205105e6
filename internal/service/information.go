package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// InformationService exposes the travel information document of a trip and
// its checklists. Checklist edits are read-modify-write and are serialized
// per trip within this process.
type InformationService struct {
	repo  repo.InformationRepo
	locks *tripLocks
}

// NewInformationService constructs an InformationService backed by r.
func NewInformationService(r repo.InformationRepo) *InformationService {
	return &InformationService{repo: r, locks: newTripLocks()}
}

// Get returns the information document of a trip.
func (s *InformationService) Get(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error) {
	doc, err := s.repo.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("service.InformationService.Get: %w", err)
	}
	return doc, nil
}

// ReplaceData overwrites the gathered travel information of a trip.
func (s *InformationService) ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error) {
	doc, err := s.repo.ReplaceData(ctx, tripID, data)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("service.InformationService.ReplaceData: %w", err)
	}
	return doc, nil
}

// Delete removes the information document of a trip.
func (s *InformationService) Delete(ctx context.Context, tripID domain.ID) error {
	if err := s.repo.DeleteByTrip(ctx, tripID); err != nil {
		return fmt.Errorf("service.InformationService.Delete: %w", err)
	}
	return nil
}

// Checklists returns the checklists of a trip. Never nil.
func (s *InformationService) Checklists(ctx context.Context, tripID domain.ID) ([]domain.Checklist, error) {
	doc, err := s.repo.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.InformationService.Checklists: %w", err)
	}
	if doc.Checklist == nil {
		return []domain.Checklist{}, nil
	}
	return doc.Checklist, nil
}

// AddChecklist appends an empty checklist and returns all checklists.
func (s *InformationService) AddChecklist(ctx context.Context, tripID domain.ID, in domain.ChecklistInput) ([]domain.Checklist, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("service.InformationService.AddChecklist: %w", err)
	}
	return s.edit(ctx, "AddChecklist", tripID, func(lists []domain.Checklist) ([]domain.Checklist, error) {
		return append(lists, domain.Checklist{
			ID:    domain.NextChecklistID(lists),
			Name:  in.Name,
			Items: []domain.ChecklistItem{},
		}), nil
	})
}

// DeleteChecklist removes a checklist and returns the remaining ones.
func (s *InformationService) DeleteChecklist(ctx context.Context, tripID domain.ID, checklistID int) ([]domain.Checklist, error) {
	return s.edit(ctx, "DeleteChecklist", tripID, func(lists []domain.Checklist) ([]domain.Checklist, error) {
		i := domain.FindChecklist(lists, checklistID)
		if i < 0 {
			return nil, fmt.Errorf("checklist %d: %w", checklistID, domain.ErrNotFound)
		}
		return append(lists[:i], lists[i+1:]...), nil
	})
}

// AddItem appends an unchecked item to a checklist and returns all checklists.
func (s *InformationService) AddItem(ctx context.Context, tripID domain.ID, checklistID int, in domain.ChecklistInput) ([]domain.Checklist, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("service.InformationService.AddItem: %w", err)
	}
	return s.edit(ctx, "AddItem", tripID, func(lists []domain.Checklist) ([]domain.Checklist, error) {
		i := domain.FindChecklist(lists, checklistID)
		if i < 0 {
			return nil, fmt.Errorf("checklist %d: %w", checklistID, domain.ErrNotFound)
		}
		lists[i].Items = append(lists[i].Items, domain.ChecklistItem{ID: lists[i].NextItemID(), Name: in.Name})
		return lists, nil
	})
}

// SetItemChecked marks an item checked or unchecked and returns all checklists.
func (s *InformationService) SetItemChecked(ctx context.Context, tripID domain.ID, checklistID, itemID int, checked bool) ([]domain.Checklist, error) {
	return s.edit(ctx, "SetItemChecked", tripID, func(lists []domain.Checklist) ([]domain.Checklist, error) {
		i, j, err := findItem(lists, checklistID, itemID)
		if err != nil {
			return nil, err
		}
		lists[i].Items[j].Checked = checked
		return lists, nil
	})
}

// DeleteItem removes an item from a checklist and returns all checklists.
func (s *InformationService) DeleteItem(ctx context.Context, tripID domain.ID, checklistID, itemID int) ([]domain.Checklist, error) {
	return s.edit(ctx, "DeleteItem", tripID, func(lists []domain.Checklist) ([]domain.Checklist, error) {
		i, j, err := findItem(lists, checklistID, itemID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = append(lists[i].Items[:j], lists[i].Items[j+1:]...)
		return lists, nil
	})
}

func (s *InformationService) edit(ctx context.Context, op string, tripID domain.ID, fn func([]domain.Checklist) ([]domain.Checklist, error)) ([]domain.Checklist, error) {
	unlock := s.locks.lock(tripID)
	defer unlock()

	doc, err := s.repo.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.InformationService.%s: %w", op, err)
	}
	lists := doc.Checklist
	if lists == nil {
		lists = []domain.Checklist{}
	}

	next, err := fn(lists)
	if err != nil {
		return nil, fmt.Errorf("service.InformationService.%s: %w", op, err)
	}
	if err := s.repo.SetChecklists(ctx, tripID, next); err != nil {
		return nil, fmt.Errorf("service.InformationService.%s: %w", op, err)
	}
	return next, nil
}

func findItem(lists []domain.Checklist, checklistID, itemID int) (int, int, error) {
	i := domain.FindChecklist(lists, checklistID)
	if i < 0 {
		return 0, 0, fmt.Errorf("checklist %d: %w", checklistID, domain.ErrNotFound)
	}
	j := lists[i].FindItem(itemID)
	if j < 0 {
		return 0, 0, fmt.Errorf("item %d: %w", itemID, domain.ErrNotFound)
	}
	return i, j, nil
}
