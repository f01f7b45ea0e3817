package importer_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/importer"
	"github.com/brightclass/roster/internal/pkg/objectstore"
)

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, objectstore.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeObjectStore) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	f.objects[bucket+"/"+key] = data
	return nil
}

type fakeJobStore struct {
	completedID     string
	completedStatus models.ImportJobStatus
	summary         models.ImportSummary
	completions     int
}

func (f *fakeJobStore) Complete(ctx context.Context, id string, status models.ImportJobStatus, summary models.ImportSummary, processedAt time.Time) error {
	f.completions++
	f.completedID = id
	f.completedStatus = status
	f.summary = summary
	return nil
}

type fakeAuditSink struct {
	events []*models.AuditEvent
}

func (f *fakeAuditSink) Append(ctx context.Context, event *models.AuditEvent) error {
	copied := *event
	f.events = append(f.events, &copied)
	return nil
}

func testJob() *models.ImportJob {
	return &models.ImportJob{
		ID:       "job-1",
		SchoolID: testSchoolID,
		Bucket:   "imports",
		Key:      "uploads/students.csv",
		Status:   models.ImportJobProcessing,
	}
}

func TestReporterFinishClean(t *testing.T) {
	objects := newFakeObjectStore()
	jobs := &fakeJobStore{}
	audit := &fakeAuditSink{}
	reporter := importer.NewReporter(objects, jobs, audit)

	job := testJob()
	outcome := &importer.Outcome{Processed: 5, Created: 3, Updated: 1, Skipped: 1}

	summary, err := reporter.Finish(context.Background(), job, outcome)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if jobs.completedStatus != models.ImportJobCompleted {
		t.Errorf("status = %s, want COMPLETED", jobs.completedStatus)
	}
	if summary.Errors != 0 || summary.ErrorReportKey != nil {
		t.Errorf("summary = %+v", summary)
	}
	if len(objects.objects) != 0 {
		t.Errorf("error report uploaded for a clean run")
	}
	if len(audit.events) != 1 {
		t.Fatalf("audit events = %d, want 1", len(audit.events))
	}
	event := audit.events[0]
	if event.Action != models.AuditActionImportCompleted ||
		event.EntityType != models.AuditEntityImportJob ||
		event.EntityID != job.ID {
		t.Errorf("event = %+v", event)
	}
	if event.Payload["created"] != 3 {
		t.Errorf("payload created = %v", event.Payload["created"])
	}
}

func TestReporterFinishWithErrors(t *testing.T) {
	objects := newFakeObjectStore()
	jobs := &fakeJobStore{}
	audit := &fakeAuditSink{}
	reporter := importer.NewReporter(objects, jobs, audit)

	job := testJob()
	outcome := &importer.Outcome{
		Processed: 2,
		Created:   1,
		RowErrors: []importer.RowError{
			{RowNumber: 3, Cells: []string{"STU-2", "", "Eze, Jr"}, Reason: importer.ReasonMissingRequired},
		},
	}

	summary, err := reporter.Finish(context.Background(), job, outcome)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if jobs.completedStatus != models.ImportJobCompletedWithErrors {
		t.Errorf("status = %s, want COMPLETED_WITH_ERRORS", jobs.completedStatus)
	}
	if summary.ErrorReportKey == nil || *summary.ErrorReportKey != "uploads/students-errors.csv" {
		t.Fatalf("error report key = %v", summary.ErrorReportKey)
	}

	data, err := objects.Get(context.Background(), "imports", *summary.ErrorReportKey)
	if err != nil {
		t.Fatalf("error report not uploaded: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("error report not parseable CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("error report rows = %d, want 2", len(records))
	}
	if got := strings.Join(records[0], ","); got != "rowNumber,reason,row" {
		t.Errorf("report header = %q", got)
	}
	if records[1][0] != "3" || records[1][1] != importer.ReasonMissingRequired {
		t.Errorf("report row = %v", records[1])
	}

	// The original cells survive round-tripping through the report
	var cells []string
	if err := json.Unmarshal([]byte(records[1][2]), &cells); err != nil {
		t.Fatalf("row column is not JSON: %v", err)
	}
	if len(cells) != 3 || cells[2] != "Eze, Jr" {
		t.Errorf("round-tripped cells = %v", cells)
	}

	if len(audit.events) != 1 {
		t.Fatalf("audit events = %d, want 1", len(audit.events))
	}
	if audit.events[0].Payload["errorReportKey"] != *summary.ErrorReportKey {
		t.Errorf("payload errorReportKey = %v", audit.events[0].Payload["errorReportKey"])
	}
}

func TestReporterFinishHonorsRequestedReportKey(t *testing.T) {
	objects := newFakeObjectStore()
	jobs := &fakeJobStore{}
	audit := &fakeAuditSink{}
	reporter := importer.NewReporter(objects, jobs, audit)

	requested := "reports/custom-errors.csv"
	job := testJob()
	job.ErrorReportKey = &requested

	outcome := &importer.Outcome{
		Processed: 1,
		RowErrors: []importer.RowError{
			{RowNumber: 2, Cells: []string{"STU-1"}, Reason: importer.ReasonMissingRequired},
		},
	}

	summary, err := reporter.Finish(context.Background(), job, outcome)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if summary.ErrorReportKey == nil || *summary.ErrorReportKey != requested {
		t.Errorf("error report key = %v, want %s", summary.ErrorReportKey, requested)
	}
	if _, err := objects.Get(context.Background(), "imports", requested); err != nil {
		t.Errorf("report not written at requested key: %v", err)
	}
}
