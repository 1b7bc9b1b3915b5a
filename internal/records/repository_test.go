package records

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

func testRecord() *ToothRecord {
	return &ToothRecord{
		PatientID:     "patient-1",
		ToothNumber:   14,
		System:        dental.SystemUniversal,
		Condition:     dental.ConditionCaries,
		Mobility:      1,
		ProbingDepths: []int64{2, 3, 3, 2, 2, 4},
		Priority:      dental.PriorityHigh,
		CreatedBy:     "dr-lee",
	}
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	rec := testRecord()

	now := time.Now().UTC()
	returning := sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"})

	// First save creates the row at version 1; the identical second save must
	// hit the conflict arm and bump the version instead of inserting again.
	mock.ExpectQuery("INSERT INTO tooth_records").
		WillReturnRows(returning.AddRow("rec-1", 1, now, now))
	require.NoError(t, repo.Upsert(context.Background(), rec))
	assert.Equal(t, 1, rec.Version)

	mock.ExpectQuery("INSERT INTO tooth_records").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow("rec-1", 2, now, now.Add(time.Minute)))
	require.NoError(t, repo.Upsert(context.Background(), rec))
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, 2, rec.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRejectsInvalidRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rec := testRecord()
	rec.ToothNumber = 40
	assert.Error(t, repo.Upsert(context.Background(), rec))

	rec = testRecord()
	rec.ProbingDepths = []int64{1, 2, 3}
	assert.Error(t, repo.Upsert(context.Background(), rec))

	rec = testRecord()
	rec.Mobility = 5
	assert.Error(t, repo.Upsert(context.Background(), rec))

	// Validation failures must abort before any SQL is issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPatientEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM tooth_records").
		WillReturnRows(sqlmock.NewRows(recordColumnNames()))

	recs, err := repo.ListByPatient(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM tooth_records").
		WillReturnRows(sqlmock.NewRows(recordColumnNames()))

	_, err = repo.Get(context.Background(), "patient-1", 3, dental.SystemUniversal)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListByPatientScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumnNames()).AddRow(
		"rec-1", "patient-1", 14, "universal", "caries",
		"sound", "sound", "caries", "sound", "sound", "sound",
		1, "{2,3,3,2,2,4}", true, "{0,0,1,0,0,0}",
		2, false, "{}",
		"distal caries", "high", 3, "dr-lee", now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM tooth_records").WillReturnRows(rows)

	repo := NewRepository(db)
	recs, err := repo.ListByPatient(context.Background(), "patient-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, 14, rec.ToothNumber)
	assert.Equal(t, dental.ConditionCaries, rec.Condition)
	assert.Equal(t, dental.ConditionCaries, rec.Surfaces.Buccal)
	assert.Equal(t, []int64{2, 3, 3, 2, 2, 4}, rec.ProbingDepths)
	assert.True(t, rec.BleedingOnProbing)
	assert.Equal(t, 3, rec.Version)
}

func recordColumnNames() []string {
	return []string{
		"id", "patient_id", "tooth_number", "numbering_system", "condition",
		"surface_mesial", "surface_distal", "surface_buccal", "surface_lingual", "surface_occlusal", "surface_incisal",
		"mobility", "probing_depths", "bleeding_on_probing", "recession",
		"root_count", "root_canal_treated", "root_conditions",
		"notes", "priority", "version", "created_by", "created_at", "updated_at",
	}
}
