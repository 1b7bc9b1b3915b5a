package records

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

const recordColumns = `id, patient_id, tooth_number, numbering_system, condition,
       surface_mesial, surface_distal, surface_buccal, surface_lingual, surface_occlusal, surface_incisal,
       mobility, probing_depths, bleeding_on_probing, recession,
       root_count, root_canal_treated, root_conditions,
       notes, priority, version, created_by, created_at, updated_at`

// Repository stores tooth records in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListByPatient returns every tooth record for a patient, all numbering
// systems included, ordered by tooth number.
func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]ToothRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM tooth_records WHERE patient_id = $1
		ORDER BY tooth_number ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ToothRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if out == nil {
		out = []ToothRecord{}
	}
	return out, rows.Err()
}

// Get fetches the record for one tooth, or ErrRecordNotFound.
func (r *Repository) Get(ctx context.Context, patientID string, tooth int, system dental.System) (*ToothRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM tooth_records
		WHERE patient_id = $1 AND tooth_number = $2 AND numbering_system = $3`,
		patientID, tooth, system)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert writes the record atomically, keyed by (patient, tooth, numbering
// system). A conflicting row is updated in place with a version bump, so the
// last write wins and concurrent editors can never produce duplicates.
func (r *Repository) Upsert(ctx context.Context, rec *ToothRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO tooth_records (id, patient_id, tooth_number, numbering_system, condition,
		    surface_mesial, surface_distal, surface_buccal, surface_lingual, surface_occlusal, surface_incisal,
		    mobility, probing_depths, bleeding_on_probing, recession,
		    root_count, root_canal_treated, root_conditions,
		    notes, priority, version, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,1,$21)
		ON CONFLICT (patient_id, tooth_number, numbering_system) DO UPDATE SET
		    condition=EXCLUDED.condition,
		    surface_mesial=EXCLUDED.surface_mesial, surface_distal=EXCLUDED.surface_distal,
		    surface_buccal=EXCLUDED.surface_buccal, surface_lingual=EXCLUDED.surface_lingual,
		    surface_occlusal=EXCLUDED.surface_occlusal, surface_incisal=EXCLUDED.surface_incisal,
		    mobility=EXCLUDED.mobility, probing_depths=EXCLUDED.probing_depths,
		    bleeding_on_probing=EXCLUDED.bleeding_on_probing, recession=EXCLUDED.recession,
		    root_count=EXCLUDED.root_count, root_canal_treated=EXCLUDED.root_canal_treated,
		    root_conditions=EXCLUDED.root_conditions,
		    notes=EXCLUDED.notes, priority=EXCLUDED.priority,
		    version=tooth_records.version + 1, updated_at=now()
		RETURNING id, version, created_at, updated_at`,
		rec.ID, rec.PatientID, rec.ToothNumber, rec.System, rec.Condition,
		rec.Surfaces.Mesial, rec.Surfaces.Distal, rec.Surfaces.Buccal,
		rec.Surfaces.Lingual, rec.Surfaces.Occlusal, rec.Surfaces.Incisal,
		rec.Mobility, pq.Array(rec.ProbingDepths), rec.BleedingOnProbing, pq.Array(rec.Recession),
		rec.RootCount, rec.RootCanalTreated, pq.Array(rec.RootConditions),
		rec.Notes, rec.Priority, rec.CreatedBy,
	).Scan(&rec.ID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ToothRecord, error) {
	var rec ToothRecord
	if err := row.Scan(
		&rec.ID, &rec.PatientID, &rec.ToothNumber, &rec.System, &rec.Condition,
		&rec.Surfaces.Mesial, &rec.Surfaces.Distal, &rec.Surfaces.Buccal,
		&rec.Surfaces.Lingual, &rec.Surfaces.Occlusal, &rec.Surfaces.Incisal,
		&rec.Mobility, pq.Array(&rec.ProbingDepths), &rec.BleedingOnProbing, pq.Array(&rec.Recession),
		&rec.RootCount, &rec.RootCanalTreated, pq.Array(&rec.RootConditions),
		&rec.Notes, &rec.Priority, &rec.Version, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
