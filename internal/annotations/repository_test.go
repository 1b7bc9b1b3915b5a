package annotations

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

func TestInsertAppliesDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO tooth_annotations").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := &Annotation{
		PatientID:   "patient-1",
		ToothNumber: 19,
		System:      dental.SystemUniversal,
		Position:    Point{X: 0.4, Y: -0.1, Z: 1.2},
		CreatedBy:   "dr-lee",
	}
	require.NoError(t, repo.Insert(context.Background(), a))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, DefaultTitle, a.Title)
	assert.Equal(t, DefaultColor, a.Color)
	assert.Equal(t, dental.AnnotationNote, a.Type)
	assert.Equal(t, dental.SeverityMedium, a.Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRejectsBadTooth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	a := &Annotation{PatientID: "p", ToothNumber: 0, System: dental.SystemFDI}
	assert.Error(t, repo.Insert(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPatientEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM tooth_annotations").
		WillReturnRows(sqlmock.NewRows(annotationColumnNames()))

	list, err := repo.ListByPatient(context.Background(), "patient-1", dental.SystemFDI)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectExec("DELETE FROM tooth_annotations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAnnotationNotFound)
}

func TestUpdateScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE tooth_annotations").
		WillReturnRows(sqlmock.NewRows(annotationColumnNames()).AddRow(
			"ann-1", "patient-1", 19, "universal",
			0.4, -0.1, 1.2, "#ef4444", "distal cavity", "deep lesion", "cavity", "high", true,
			"dr-lee", now, now,
		))

	repo := NewRepository(db)
	title := "distal cavity"
	sev := dental.SeverityHigh
	got, err := repo.Update(context.Background(), "ann-1", UpdateFields{Title: &title, Severity: &sev})
	require.NoError(t, err)
	assert.Equal(t, "distal cavity", got.Title)
	assert.Equal(t, dental.SeverityHigh, got.Severity)
	assert.Equal(t, dental.AnnotationCavity, got.Type)
}

func TestUpdateRejectsBadSeverity(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	sev := dental.Severity("urgent")
	_, err = repo.Update(context.Background(), "ann-1", UpdateFields{Severity: &sev})
	assert.Error(t, err)
}

func annotationColumnNames() []string {
	return []string{
		"id", "patient_id", "tooth_number", "numbering_system",
		"pos_x", "pos_y", "pos_z", "color", "title", "description", "annotation_type", "severity", "visible",
		"created_by", "created_at", "updated_at",
	}
}
