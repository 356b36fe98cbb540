package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

// fakeStore mimics the postgres repositories in memory, including the
// cross-table effects: revision lock transitions on assignment changes and
// an audit entry per recorded transition.
type fakeStore struct {
	revisions   map[string]docs.Revision
	assignments map[string]docs.Assignment
	audits      []docs.AuditEntry
	seq         int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		revisions:   make(map[string]docs.Revision),
		assignments: make(map[string]docs.Assignment),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) audit(subjectType docs.SubjectType, subjectID string, action docs.AuditAction, actorID, reason, requestID string) {
	f.audits = append(f.audits, docs.AuditEntry{
		ID:          f.nextID("audit"),
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Action:      action,
		ActorID:     actorID,
		Reason:      reason,
		RequestID:   requestID,
		CreatedAt:   time.Now(),
	})
}

func (f *fakeStore) auditsFor(subjectID string) []docs.AuditEntry {
	var out []docs.AuditEntry
	for _, entry := range f.audits {
		if entry.SubjectID == subjectID {
			out = append(out, entry)
		}
	}
	return out
}

func (f *fakeStore) activeAssignment(revisionID string) (docs.Assignment, bool) {
	for _, asg := range f.assignments {
		if asg.RevisionID == revisionID && !asg.Status.Terminal() {
			return asg, true
		}
	}
	return docs.Assignment{}, false
}

type fakeRevisionRepo struct {
	store *fakeStore
}

func (r *fakeRevisionRepo) Create(_ context.Context, rev docs.Revision, requestID string) (docs.Revision, error) {
	version := 1
	for id, prior := range r.store.revisions {
		if prior.LandID == rev.LandID && prior.DocumentType == rev.DocumentType && prior.IsLatest {
			prior.IsLatest = false
			r.store.revisions[id] = prior
			version = prior.VersionNumber + 1
			parent := prior.ID
			rev.ParentRevisionID = &parent
		}
	}
	rev.ID = r.store.nextID("rev")
	rev.VersionNumber = version
	rev.IsLatest = true
	rev.State = docs.StateActive
	rev.UploadedAt = time.Now()
	r.store.revisions[rev.ID] = rev
	r.store.audit(docs.SubjectRevision, rev.ID, docs.ActionUploaded, rev.UploadedBy, rev.ChangeReason, requestID)
	return rev, nil
}

func (r *fakeRevisionRepo) Get(_ context.Context, revisionID string) (docs.Revision, error) {
	rev, ok := r.store.revisions[revisionID]
	if !ok {
		return docs.Revision{}, docs.ErrNotFound
	}
	return rev, nil
}

func (r *fakeRevisionRepo) GetLatest(_ context.Context, landID, documentType string) (docs.Revision, error) {
	for _, rev := range r.store.revisions {
		if rev.LandID == landID && rev.DocumentType == documentType && rev.IsLatest {
			return rev, nil
		}
	}
	return docs.Revision{}, docs.ErrNotFound
}

func (r *fakeRevisionRepo) ListByDocument(_ context.Context, landID, documentType string) ([]docs.Revision, error) {
	var out []docs.Revision
	for _, rev := range r.store.revisions {
		if rev.LandID == landID && rev.DocumentType == documentType {
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *fakeRevisionRepo) Archive(_ context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error) {
	rev, ok := r.store.revisions[revisionID]
	if !ok {
		return docs.Revision{}, docs.ErrNotFound
	}
	switch rev.State {
	case docs.StateArchived:
		return docs.Revision{}, docs.ErrInvalidState
	case docs.StateLocked:
		if _, active := r.store.activeAssignment(revisionID); active {
			return docs.Revision{}, docs.ErrInvalidState
		}
	case docs.StateActive:
		if rev.IsLatest {
			return docs.Revision{}, docs.ErrInvalidState
		}
	}
	rev.State = docs.StateArchived
	r.store.revisions[revisionID] = rev
	r.store.audit(docs.SubjectRevision, revisionID, docs.ActionArchived, actorID, reason, requestID)
	return rev, nil
}

type fakeAssignmentRepo struct {
	store *fakeStore
}

func (r *fakeAssignmentRepo) CreateLocking(_ context.Context, asg docs.Assignment, requestID string) (docs.Assignment, error) {
	rev, ok := r.store.revisions[asg.RevisionID]
	if !ok {
		return docs.Assignment{}, docs.ErrNotFound
	}
	switch rev.State {
	case docs.StateLocked:
		return docs.Assignment{}, docs.ErrAlreadyLocked
	case docs.StateArchived:
		return docs.Assignment{}, docs.ErrAlreadyArchived
	}
	asg.ID = r.store.nextID("asg")
	asg.Status = docs.AssignmentAssigned
	asg.CreatedAt = time.Now()
	r.store.assignments[asg.ID] = asg
	rev.State = docs.StateLocked
	r.store.revisions[rev.ID] = rev
	r.store.audit(docs.SubjectRevision, rev.ID, docs.ActionLocked, asg.AssignedBy, "", requestID)
	r.store.audit(docs.SubjectAssignment, asg.ID, docs.ActionLocked, asg.AssignedBy, asg.Notes, requestID)
	return asg, nil
}

func (r *fakeAssignmentRepo) Get(_ context.Context, assignmentID string) (docs.Assignment, error) {
	asg, ok := r.store.assignments[assignmentID]
	if !ok {
		return docs.Assignment{}, docs.ErrNotFound
	}
	return asg, nil
}

func (r *fakeAssignmentRepo) Start(_ context.Context, assignmentID, actorID string) (docs.Assignment, error) {
	asg, ok := r.store.assignments[assignmentID]
	if !ok {
		return docs.Assignment{}, docs.ErrNotFound
	}
	if asg.Status != docs.AssignmentAssigned {
		return docs.Assignment{}, docs.ErrInvalidState
	}
	now := time.Now()
	asg.Status = docs.AssignmentInProgress
	asg.StartedAt = &now
	r.store.assignments[assignmentID] = asg
	return asg, nil
}

func (r *fakeAssignmentRepo) Complete(_ context.Context, assignmentID, actorID string, result docs.ReviewResult, comments, requestID string) (docs.Assignment, error) {
	asg, ok := r.store.assignments[assignmentID]
	if !ok {
		return docs.Assignment{}, docs.ErrNotFound
	}
	if asg.Status != docs.AssignmentAssigned && asg.Status != docs.AssignmentInProgress {
		return docs.Assignment{}, docs.ErrInvalidState
	}
	now := time.Now()
	asg.Status = docs.AssignmentCompleted
	asg.CompletionResult = &result
	asg.CompletionComments = comments
	asg.CompletedAt = &now
	r.store.assignments[assignmentID] = asg
	r.store.audit(docs.SubjectAssignment, assignmentID, docs.ResultAction(result), actorID, comments, requestID)
	return asg, nil
}

func (r *fakeAssignmentRepo) Cancel(_ context.Context, assignmentID, actorID, reason, requestID string) (docs.Assignment, error) {
	asg, ok := r.store.assignments[assignmentID]
	if !ok {
		return docs.Assignment{}, docs.ErrNotFound
	}
	if asg.Status.Terminal() {
		return docs.Assignment{}, docs.ErrInvalidState
	}
	asg.Status = docs.AssignmentCancelled
	asg.CancelReason = reason
	r.store.assignments[assignmentID] = asg
	if rev, ok := r.store.revisions[asg.RevisionID]; ok && rev.State == docs.StateLocked {
		rev.State = docs.StateActive
		r.store.revisions[rev.ID] = rev
		r.store.audit(docs.SubjectRevision, rev.ID, docs.ActionUnlocked, actorID, reason, requestID)
	}
	r.store.audit(docs.SubjectAssignment, assignmentID, docs.ActionCancelled, actorID, reason, requestID)
	return asg, nil
}

func (r *fakeAssignmentRepo) UnlockRevision(_ context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error) {
	rev, ok := r.store.revisions[revisionID]
	if !ok {
		return docs.Revision{}, docs.ErrNotFound
	}
	if rev.State != docs.StateLocked {
		return docs.Revision{}, docs.ErrInvalidState
	}
	if active, found := r.store.activeAssignment(revisionID); found {
		active.Status = docs.AssignmentCancelled
		active.CancelReason = reason
		r.store.assignments[active.ID] = active
		r.store.audit(docs.SubjectAssignment, active.ID, docs.ActionCancelled, actorID, reason, requestID)
	}
	rev.State = docs.StateActive
	r.store.revisions[revisionID] = rev
	r.store.audit(docs.SubjectRevision, revisionID, docs.ActionUnlocked, actorID, reason, requestID)
	return rev, nil
}

type fakeAuditRepo struct {
	store *fakeStore
}

func (r *fakeAuditRepo) Record(_ context.Context, entry docs.AuditEntry) (docs.AuditEntry, error) {
	entry.ID = r.store.nextID("audit")
	entry.CreatedAt = time.Now()
	r.store.audits = append(r.store.audits, entry)
	return entry, nil
}

func (r *fakeAuditRepo) History(_ context.Context, subjectType docs.SubjectType, subjectID string) ([]docs.AuditEntry, error) {
	var out []docs.AuditEntry
	for _, entry := range r.store.audits {
		if entry.SubjectType == subjectType && entry.SubjectID == subjectID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubDirectory struct {
	roles map[string][]string
	err   error
}

func (d *stubDirectory) HasRole(_ context.Context, reviewerID, role string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	for _, held := range d.roles[reviewerID] {
		if held == role {
			return true, nil
		}
	}
	return false, nil
}

type stubRegistry struct {
	err error
}

func (r *stubRegistry) ValidateDocument(context.Context, string, string) error {
	return r.err
}

func newTestServices(dir docs.ReviewerDirectory) (*VersionService, *ReviewService, *fakeStore) {
	store := newFakeStore()
	versions := NewVersionService(&fakeRevisionRepo{store: store}, &stubRegistry{})
	reviews := NewReviewService(&fakeAssignmentRepo{store: store}, dir)
	return versions, reviews, store
}
