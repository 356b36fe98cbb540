package usecase

import (
	"context"
	"testing"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

func TestRequestIDRequiredForActions(t *testing.T) {
	versions, reviews, _ := newTestServices(&stubDirectory{})
	actor := Actor{ID: "user-1"}

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "CreateRevision",
			run: func() error {
				_, err := versions.CreateRevision(context.Background(), CreateRevisionInput{
					LandID:       "land-1",
					DocumentType: "survey_report",
					ContentRef:   "s3://docs/1",
					UploadedBy:   "user-1",
					RequestID:    "",
				})
				return err
			},
		},
		{
			name: "Archive",
			run: func() error {
				_, err := versions.Archive(context.Background(), ArchiveInput{
					RevisionID: "rev-1",
					RequestID:  "",
					Actor:      actor,
				})
				return err
			},
		},
		{
			name: "Assign",
			run: func() error {
				_, err := reviews.Assign(context.Background(), AssignInput{
					RevisionID:   "rev-1",
					AssignedTo:   "alice",
					AssignedBy:   "user-1",
					ReviewerRole: "re_analyst",
					RequestID:    "",
				})
				return err
			},
		},
		{
			name: "Start",
			run: func() error {
				_, err := reviews.Start(context.Background(), StartInput{
					AssignmentID: "asg-1",
					RequestID:    "",
					Actor:        actor,
				})
				return err
			},
		},
		{
			name: "Complete",
			run: func() error {
				_, err := reviews.Complete(context.Background(), CompleteInput{
					AssignmentID: "asg-1",
					Result:       "approved",
					RequestID:    "",
					Actor:        actor,
				})
				return err
			},
		},
		{
			name: "Cancel",
			run: func() error {
				_, err := reviews.Cancel(context.Background(), CancelInput{
					AssignmentID: "asg-1",
					RequestID:    "",
					Actor:        actor,
				})
				return err
			},
		},
		{
			name: "Unlock",
			run: func() error {
				_, err := reviews.Unlock(context.Background(), UnlockInput{
					RevisionID: "rev-1",
					RequestID:  "",
					Actor:      actor,
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err != docs.ErrInvalidArgument {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCreateRevisionValidation(t *testing.T) {
	versions, _, _ := newTestServices(&stubDirectory{})

	tests := []struct {
		name  string
		input CreateRevisionInput
	}{
		{"missing land", CreateRevisionInput{DocumentType: "deed", ContentRef: "s3://x", UploadedBy: "u", RequestID: "req-1"}},
		{"missing document type", CreateRevisionInput{LandID: "land-1", ContentRef: "s3://x", UploadedBy: "u", RequestID: "req-1"}},
		{"missing content ref", CreateRevisionInput{LandID: "land-1", DocumentType: "deed", UploadedBy: "u", RequestID: "req-1"}},
		{"missing uploader", CreateRevisionInput{LandID: "land-1", DocumentType: "deed", ContentRef: "s3://x", RequestID: "req-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := versions.CreateRevision(context.Background(), tt.input); err != docs.ErrInvalidArgument {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCreateRevisionSequencesVersions(t *testing.T) {
	versions, _, store := newTestServices(&stubDirectory{})
	ctx := context.Background()

	first, err := versions.CreateRevision(ctx, CreateRevisionInput{
		LandID:       "land-1",
		DocumentType: "survey_report",
		ContentRef:   "s3://docs/v1",
		UploadedBy:   "uploader-1",
		RequestID:    "req-1",
	})
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if first.VersionNumber != 1 || !first.IsLatest || first.State != docs.StateActive {
		t.Fatalf("unexpected first revision: %+v", first)
	}

	second, err := versions.CreateRevision(ctx, CreateRevisionInput{
		LandID:       "land-1",
		DocumentType: "survey_report",
		ContentRef:   "s3://docs/v2",
		UploadedBy:   "uploader-1",
		ChangeReason: "boundary corrected",
		RequestID:    "req-2",
	})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.VersionNumber != 2 || !second.IsLatest {
		t.Fatalf("unexpected second revision: %+v", second)
	}
	if second.ParentRevisionID == nil || *second.ParentRevisionID != first.ID {
		t.Fatalf("expected parent %s, got %v", first.ID, second.ParentRevisionID)
	}

	prior := store.revisions[first.ID]
	if prior.IsLatest {
		t.Fatal("first revision must lose the latest flag")
	}
	if prior.State != docs.StateActive {
		t.Fatalf("superseded revision must stay active, got %s", prior.State)
	}

	entries := store.auditsFor(second.ID)
	if len(entries) != 1 || entries[0].Action != docs.ActionUploaded {
		t.Fatalf("expected one uploaded audit entry, got %+v", entries)
	}
	if entries[0].RequestID != "req-2" {
		t.Fatalf("audit entry must carry the request id, got %q", entries[0].RequestID)
	}
}

func TestUploadAfterLockKeepsPriorRevisionLocked(t *testing.T) {
	versions, reviews, store := newTestServices(&stubDirectory{roles: map[string][]string{"alice": {"re_analyst"}}})
	ctx := context.Background()

	first := mustCreateRevision(t, versions, "land-1", "survey_report", "req-1")
	if _, err := reviews.Assign(ctx, AssignInput{
		RevisionID:   first.ID,
		AssignedTo:   "alice",
		AssignedBy:   "manager-1",
		ReviewerRole: "re_analyst",
		RequestID:    "req-2",
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Uploading a replacement does not disturb the review in flight: the
	// locked revision only loses its latest flag.
	second := mustCreateRevision(t, versions, "land-1", "survey_report", "req-3")
	if second.VersionNumber != 2 || !second.IsLatest || second.State != docs.StateActive {
		t.Fatalf("unexpected replacement revision: %+v", second)
	}

	prior := store.revisions[first.ID]
	if prior.State != docs.StateLocked {
		t.Fatalf("locked revision must stay locked, got %s", prior.State)
	}
	if prior.IsLatest {
		t.Fatal("superseded revision must lose the latest flag")
	}

	latest, err := versions.GetLatest(ctx, "land-1", "survey_report")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest = %s, want %s", latest.ID, second.ID)
	}

	listed, err := versions.ListVersions(ctx, "land-1", "survey_report")
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(listed))
	}
	if listed[0].ID != second.ID || listed[0].State != docs.StateActive {
		t.Fatalf("expected the active replacement first, got %+v", listed[0])
	}
	if listed[1].ID != first.ID || listed[1].State != docs.StateLocked {
		t.Fatalf("expected the locked original second, got %+v", listed[1])
	}
}

func TestCreateRevisionRejectsUnknownLand(t *testing.T) {
	store := newFakeStore()
	versions := NewVersionService(&fakeRevisionRepo{store: store}, &stubRegistry{err: docs.ErrNotFound})

	_, err := versions.CreateRevision(context.Background(), CreateRevisionInput{
		LandID:       "land-missing",
		DocumentType: "deed",
		ContentRef:   "s3://docs/v1",
		UploadedBy:   "uploader-1",
		RequestID:    "req-1",
	})
	if err != docs.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.revisions) != 0 {
		t.Fatal("no revision may be written for an unknown land")
	}
}

func TestArchiveRules(t *testing.T) {
	versions, reviews, store := newTestServices(&stubDirectory{roles: map[string][]string{"alice": {"re_analyst"}}})
	ctx := context.Background()

	first := mustCreateRevision(t, versions, "land-1", "deed", "req-1")
	second := mustCreateRevision(t, versions, "land-1", "deed", "req-2")

	// The latest active revision is still the working copy.
	if _, err := versions.Archive(ctx, ArchiveInput{RevisionID: second.ID, RequestID: "req-3", Actor: Actor{ID: "admin-1"}}); err != docs.ErrInvalidState {
		t.Fatalf("archiving the latest active revision: expected ErrInvalidState, got %v", err)
	}

	// A superseded revision archives fine.
	archived, err := versions.Archive(ctx, ArchiveInput{RevisionID: first.ID, Reason: "superseded", RequestID: "req-4", Actor: Actor{ID: "admin-1"}})
	if err != nil {
		t.Fatalf("archive superseded: %v", err)
	}
	if archived.State != docs.StateArchived {
		t.Fatalf("expected archived, got %s", archived.State)
	}

	// Archived is terminal.
	if _, err := versions.Archive(ctx, ArchiveInput{RevisionID: first.ID, RequestID: "req-5", Actor: Actor{ID: "admin-1"}}); err != docs.ErrInvalidState {
		t.Fatalf("re-archive: expected ErrInvalidState, got %v", err)
	}

	// Locked with a live assignment refuses to archive.
	asg, err := reviews.Assign(ctx, AssignInput{
		RevisionID:   second.ID,
		AssignedTo:   "alice",
		AssignedBy:   "manager-1",
		ReviewerRole: "re_analyst",
		RequestID:    "req-6",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := versions.Archive(ctx, ArchiveInput{RevisionID: second.ID, RequestID: "req-7", Actor: Actor{ID: "admin-1"}}); err != docs.ErrInvalidState {
		t.Fatalf("archive under review: expected ErrInvalidState, got %v", err)
	}

	// Once the review is done the locked revision may be archived.
	if _, err := reviews.Complete(ctx, CompleteInput{AssignmentID: asg.ID, Result: "rejected", RequestID: "req-8", Actor: Actor{ID: "alice"}}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := versions.Archive(ctx, ArchiveInput{RevisionID: second.ID, Reason: "rejected", RequestID: "req-9", Actor: Actor{ID: "admin-1"}}); err != nil {
		t.Fatalf("archive after completion: %v", err)
	}
	if store.revisions[second.ID].State != docs.StateArchived {
		t.Fatal("revision must end archived")
	}
}

func mustCreateRevision(t *testing.T, versions *VersionService, landID, documentType, requestID string) docs.Revision {
	t.Helper()
	rev, err := versions.CreateRevision(context.Background(), CreateRevisionInput{
		LandID:       landID,
		DocumentType: documentType,
		ContentRef:   "s3://docs/" + requestID,
		UploadedBy:   "uploader-1",
		RequestID:    requestID,
	})
	if err != nil {
		t.Fatalf("create revision: %v", err)
	}
	return rev
}
