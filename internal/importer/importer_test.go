package importer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var today = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.New(db.DriverSQLite, filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func newImporter(t *testing.T, store Store) *Importer {
	return New(store, zaptest.NewLogger(t)).WithClock(func() time.Time { return today })
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type failingStore struct{ err error }

func (s failingStore) InsertMany(context.Context, []types.ApplicationFields) ([]int64, error) {
	return nil, s.err
}

func TestImport_PerRecordIsolation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	summary, err := newImporter(t, store).Import(ctx, strings.NewReader(`[
		{"job_tittle": "DevOps", "company": "Saab"},
		{"job_tittle": "IT Manager"},
		{"job_tittle": "Helpdesk Support", "company": "Atea"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Outcomes, 3)
	assert.True(t, summary.Outcomes[0].Inserted)
	assert.False(t, summary.Outcomes[1].Inserted)
	assert.Equal(t, 2, summary.Outcomes[1].Index)
	assert.Contains(t, summary.Outcomes[1].Reason, "missing job_tittle or company")
	assert.True(t, summary.Outcomes[2].Inserted)

	jobs, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Saab", jobs[0].Company)
	assert.Equal(t, "Atea", jobs[1].Company)
	assert.Equal(t, summary.Outcomes[0].ID, jobs[0].ID)
	assert.Equal(t, summary.Outcomes[2].ID, jobs[1].ID)
}

func TestImport_Defaults(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := newImporter(t, store).Import(ctx, strings.NewReader(`[
		{"job_tittle": "DevOps", "company": "Saab"},
		{"job_tittle": "IT-tekniker", "company": "CGI", "date_of_apply": "2025-09-01", "last_status_update": ""},
		{"job_tittle": "Scrum Master", "company": "Klarna", "city": "", "status": "Rejected", "tags": "team_lead", "date_of_apply": "2025-08-01", "last_status_update": "2025-08-09"}
	]`))
	require.NoError(t, err)

	jobs, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, types.ApplicationFields{
		Title:            "DevOps",
		Company:          "Saab",
		City:             DefaultCity,
		DateOfApply:      "2025-11-03",
		Status:           types.StatusApplied,
		LastStatusUpdate: "2025-11-03",
		Tags:             "",
	}, jobs[0].ApplicationFields)

	assert.Equal(t, "2025-09-01", jobs[1].LastStatusUpdate, "empty last_status_update falls back to date_of_apply")

	assert.Equal(t, "", jobs[2].City, "a present but empty city is kept")
	assert.Equal(t, "Rejected", jobs[2].Status)
	assert.Equal(t, "2025-08-09", jobs[2].LastStatusUpdate)
	assert.Equal(t, "team_lead", jobs[2].Tags)
}

func TestImport_SkipsMalformedElements(t *testing.T) {
	store := newStore(t)

	summary, err := newImporter(t, store).Import(context.Background(), strings.NewReader(`[
		42,
		null,
		{"job_tittle": 7, "company": "Saab"},
		{"job_tittle": "   ", "company": "Saab"},
		{"job_tittle": "DevOps", "company": "Saab"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 4, summary.Failed)
	assert.Contains(t, summary.Outcomes[0].Reason, "malformed record")
}

func TestImport_NotAnArray(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := newImporter(t, store).Import(ctx, strings.NewReader(`{"job_tittle": "DevOps", "company": "Saab"}`))
	require.Error(t, err)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Contains(t, err.Error(), "JSON must be a list of job objects")

	jobs, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestImport_InvalidJSON(t *testing.T) {
	_, err := newImporter(t, newStore(t)).Import(context.Background(), strings.NewReader(`[{"job_tittle": `))
	require.Error(t, err)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Contains(t, err.Error(), "could not read JSON")
}

func TestImport_Empty(t *testing.T) {
	summary, err := newImporter(t, newStore(t)).Import(context.Background(), strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Zero(t, summary.Succeeded)
	assert.Zero(t, summary.Failed)
}

func TestImport_StoreFailure(t *testing.T) {
	boom := errors.New("database is locked")

	summary, err := newImporter(t, failingStore{err: boom}).Import(context.Background(), strings.NewReader(`[
		{"job_tittle": "DevOps", "company": "Saab"}
	]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, summary.Succeeded)
}

func TestImportFile_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := newImporter(t, newStore(t)).ImportFile(context.Background(), path)
	require.Error(t, err)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, path, fileErr.Path)
	assert.Contains(t, err.Error(), "file not found")
}

func TestImportFile_BadFileReportsPath(t *testing.T) {
	path := writeFile(t, `"not a list"`)

	_, err := newImporter(t, newStore(t)).ImportFile(context.Background(), path)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, path, fileErr.Path)
}

func TestImportFile_RoundTrip(t *testing.T) {
	in := []types.ApplicationFields{
		{Title: "Platform Engineer", Company: "Spotify", City: "Stockholm", DateOfApply: "2025-04-10",
			Status: types.StatusWaiting, LastStatusUpdate: "2025-04-12", Tags: "devops"},
		{Title: "Fälttekniker IT", Company: "Skanska IT", City: "Malmö", DateOfApply: "2025-05-02",
			Status: types.StatusRejected, LastStatusUpdate: "2025-05-20", Tags: "on_site_support, second_line"},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	store := newStore(t)
	ctx := context.Background()
	summary, err := newImporter(t, store).ImportFile(ctx, writeFile(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)

	jobs, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, types.FieldsOf(jobs))
}
