package app

import "time"

// DeletionReport carries per-entity row counts of one cascade delete.
// A zero report with Users == 0 is a valid outcome of a retried
// erasure: every delete predicate is an exact match, so re-running
// after a partial failure matches fewer or zero rows.
type DeletionReport struct {
	UserID      uint  `json:"user_id"`
	AuditEvents int64 `json:"audit_events"`
	Segments    int64 `json:"segments"`
	Suggestions int64 `json:"suggestions"`
	Sessions    int64 `json:"sessions"`
	Documents   int64 `json:"documents"`
	Users       int64 `json:"users"`

	// Index deletion is best-effort and outside the transaction.
	// IndexError never fails the relational outcome.
	IndexDeleted bool   `json:"index_deleted"`
	IndexError   string `json:"index_error,omitempty"`

	DeletedAt time.Time `json:"deleted_at"`
}

// SweepReport aggregates one expiry sweep cycle across all users.
type SweepReport struct {
	AuditEvents int64 `json:"audit_events"`
	Segments    int64 `json:"segments"`
	Suggestions int64 `json:"suggestions"`
	Sessions    int64 `json:"sessions"`

	UsersSwept    int    `json:"users_swept"`
	UsersSkipped  int    `json:"users_skipped"`
	FailedUserIDs []uint `json:"failed_user_ids,omitempty"`

	SweptAt time.Time `json:"swept_at"`
}

func (r *SweepReport) accumulate(d *DeletionReport) {
	r.AuditEvents += d.AuditEvents
	r.Segments += d.Segments
	r.Suggestions += d.Suggestions
	r.Sessions += d.Sessions
}
