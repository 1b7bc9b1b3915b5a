package patients

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the storage contract for the patient registry.
type Repository interface {
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error)
	List(ctx context.Context, filter ListPatientsFilter) ([]*Patient, error)
}

// InMemoryRepository keeps patients in a map. Used by tests and local demos.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

func (r *InMemoryRepository) Create(_ context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Patient{
		ID:                uuid.NewString(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Email:             req.Email,
		Phone:             req.Phone,
		MedicalAlerts:     orEmpty(req.MedicalAlerts),
		Allergies:         orEmpty(req.Allergies),
		InsuranceProvider: req.InsuranceProvider,
		InsuranceMemberID: req.InsuranceMemberID,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.ID] = p
	return clone(p), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return clone(p), nil
}

func (r *InMemoryRepository) Update(_ context.Context, id string, req *UpdatePatientRequest) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.MedicalAlerts != nil {
		p.MedicalAlerts = orEmpty(*req.MedicalAlerts)
	}
	if req.Allergies != nil {
		p.Allergies = orEmpty(*req.Allergies)
	}
	if req.InsuranceProvider != nil {
		p.InsuranceProvider = *req.InsuranceProvider
	}
	if req.InsuranceMemberID != nil {
		p.InsuranceMemberID = *req.InsuranceMemberID
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}
	p.UpdatedAt = time.Now().UTC()
	return clone(p), nil
}

func (r *InMemoryRepository) List(_ context.Context, filter ListPatientsFilter) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*Patient{}
	needle := strings.ToLower(filter.Search)
	for _, p := range r.patients {
		if p.Archived && !filter.IncludeArchived {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(p.FullName() + " " + p.Email + " " + p.Phone)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		result = append(result, clone(p))
	}
	return result, nil
}

func clone(p *Patient) *Patient {
	cp := *p
	cp.MedicalAlerts = append([]string{}, p.MedicalAlerts...)
	cp.Allergies = append([]string{}, p.Allergies...)
	return &cp
}
