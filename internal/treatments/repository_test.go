package treatments

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTreatmentDefaultsToPlanned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO treatments").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	tooth := 30
	tr := &Treatment{
		PatientID:     "patient-1",
		ToothNumber:   &tooth,
		ProcedureCode: "D2740",
		Description:   "porcelain crown",
		CostCents:     145000,
	}
	require.NoError(t, repo.CreateTreatment(context.Background(), tr))

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, TreatmentPlanned, tr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTreatmentRejectsBadInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	tooth := 40
	assert.Error(t, repo.CreateTreatment(context.Background(), &Treatment{
		PatientID: "patient-1", ToothNumber: &tooth, ProcedureCode: "D2740",
	}), "tooth 40 is out of range")

	assert.Error(t, repo.CreateTreatment(context.Background(), &Treatment{
		PatientID: "patient-1", ProcedureCode: "D2740", CostCents: -1,
	}), "negative cost")

	assert.Error(t, repo.CreateTreatment(context.Background(), &Treatment{
		PatientID: "patient-1",
	}), "missing procedure code")

	// Validation failures must abort before any SQL is issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTreatmentsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM treatments").
		WillReturnRows(sqlmock.NewRows(treatmentColumnNames()))

	list, err := repo.ListTreatmentsByPatient(context.Background(), "patient-1", "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdateTreatmentStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("UPDATE treatments").
		WillReturnRows(sqlmock.NewRows(treatmentColumnNames()))

	_, err = repo.UpdateTreatmentStatus(context.Background(), "missing", TreatmentCompleted, "dr-lee")
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestCreateInvoiceAndScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	inv := &Invoice{
		PatientID:    "patient-1",
		TreatmentIDs: []string{"tr-1", "tr-2"},
		AmountCents:  215000,
	}
	require.NoError(t, repo.CreateInvoice(context.Background(), inv))
	assert.Equal(t, InvoiceDraft, inv.Status)

	rows := sqlmock.NewRows(invoiceColumnNames()).AddRow(
		inv.ID, "patient-1", `{"tr-1","tr-2"}`, int64(215000), "issued",
		now, nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM invoices").WillReturnRows(rows)

	got, err := repo.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tr-1", "tr-2"}, got.TreatmentIDs)
	assert.Equal(t, InvoiceIssued, got.Status)
	require.NotNil(t, got.IssuedAt)
	assert.Nil(t, got.PaidAt)
}

func TestCreateInvoiceRequiresTreatments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	err = repo.CreateInvoice(context.Background(), &Invoice{PatientID: "patient-1"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WillReturnRows(sqlmock.NewRows([]string{"billed", "paid"}).AddRow(int64(215000), int64(90000)))

	b, err := repo.Balance(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(215000), b.BilledCents)
	assert.Equal(t, int64(90000), b.PaidCents)
	assert.Equal(t, int64(125000), b.OutstandingCents)
}

func treatmentColumnNames() []string {
	return []string{
		"id", "patient_id", "tooth_number", "procedure_code", "description",
		"status", "cost_cents", "performed_by", "performed_at", "created_at", "updated_at",
	}
}

func invoiceColumnNames() []string {
	return []string{
		"id", "patient_id", "treatment_ids", "amount_cents", "status",
		"issued_at", "paid_at", "created_at", "updated_at",
	}
}
