package domain

// ScrapeUnit is the smallest piece of work in a batch: one numbered URL, one
// listing page, or one browser-rendered page. Questions are committed per unit.
type ScrapeUnit struct {
	Kind SourceKind
	URL  string
	// Page is the URL number or page number the unit was planned from, 0 if none.
	Page int
	// QuizSetID namespaces image assets produced while extracting the unit.
	QuizSetID string
}

// UnitStatus is the outcome of one unit.
type UnitStatus string

const (
	UnitOK            UnitStatus = "ok"
	UnitFetchFailed   UnitStatus = "fetch_failed"
	UnitPersistFailed UnitStatus = "persist_failed"
	UnitFailed        UnitStatus = "failed"
	UnitUnrecognized  UnitStatus = "unrecognized"
)

// UnitReport is recorded for every unit the orchestrator attempted.
type UnitReport struct {
	Kind      SourceKind `json:"kind"`
	URL       string     `json:"url"`
	Page      int        `json:"page,omitempty"`
	Status    UnitStatus `json:"status"`
	Questions int        `json:"questions"`
	Error     string     `json:"error,omitempty"`
}

// BatchResult summarizes a scrape batch.
type BatchResult struct {
	QuizSetID          string       `json:"quiz_set_id"`
	QuestionsPersisted int          `json:"questions_persisted"`
	Units              []UnitReport `json:"units"`
}

// Failed returns the reports whose status is not ok.
func (r *BatchResult) Failed() []UnitReport {
	var failed []UnitReport
	for _, u := range r.Units {
		if u.Status != UnitOK {
			failed = append(failed, u)
		}
	}
	return failed
}
