package transcript

import (
	"fmt"

	"github.com/roach88/txkv/internal/engine"
)

// Divergence describes the first entry whose replay did not match the record.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Line     string `json:"line"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

func (d *Divergence) String() string {
	return fmt.Sprintf("seq %d %q: %s recorded %q, replayed %q", d.Seq, d.Line, d.Field, d.Recorded, d.Replayed)
}

// ReplayReport is the outcome of re-evaluating one recorded session.
type ReplayReport struct {
	SessionID     string      `json:"session_id"`
	Label         string      `json:"label,omitempty"`
	Entries       int         `json:"entries"`
	Deterministic bool        `json:"deterministic"`
	Divergence    *Divergence `json:"divergence,omitempty"`
}

// Replay re-evaluates every recorded line against a fresh session and
// compares each result, digest included, with the recorded entry.
//
// The replay clock starts one before the first recorded seq so sequence
// numbers line up. Stored digests are checked against the recorded content
// first, so an edited transcript is reported as a digest divergence rather
// than replayed.
func Replay(s Session) (ReplayReport, error) {
	report := ReplayReport{
		SessionID:     s.ID,
		Label:         s.Label,
		Entries:       len(s.Entries),
		Deterministic: true,
	}
	if len(s.Entries) == 0 {
		return report, nil
	}

	sess := engine.NewSession(engine.WithClock(engine.NewClockAt(s.Entries[0].Seq - 1)))

	for _, recorded := range s.Entries {
		want, err := Digest(s.ID, recorded)
		if err != nil {
			return report, fmt.Errorf("replay %s: %w", s.ID, err)
		}
		if want != recorded.Digest {
			report.fail(recorded, "digest", recorded.Digest, want)
			return report, nil
		}

		replayed, err := Seal(s.ID, FromResponse(sess.Eval(recorded.Line)))
		if err != nil {
			return report, fmt.Errorf("replay %s: %w", s.ID, err)
		}

		if field, rec, rep, ok := compareEntries(recorded, replayed); !ok {
			report.fail(recorded, field, rec, rep)
			return report, nil
		}
	}
	return report, nil
}

func (r *ReplayReport) fail(e Entry, field, recorded, replayed string) {
	r.Deterministic = false
	r.Divergence = &Divergence{
		Seq:      e.Seq,
		Line:     e.Line,
		Field:    field,
		Recorded: recorded,
		Replayed: replayed,
	}
}

// compareEntries returns the first differing field, in the order a reader
// would care about. Digest is compared last since any earlier difference
// also changes it.
func compareEntries(a, b Entry) (field, recorded, replayed string, ok bool) {
	switch {
	case a.Seq != b.Seq:
		return "seq", fmt.Sprint(a.Seq), fmt.Sprint(b.Seq), false
	case a.Status != b.Status:
		return "status", a.Status, b.Status, false
	case a.HasOutput != b.HasOutput || a.Output != b.Output:
		return "output", a.Output, b.Output, false
	case a.Depth != b.Depth:
		return "depth", fmt.Sprint(a.Depth), fmt.Sprint(b.Depth), false
	case a.Digest != b.Digest:
		return "digest", a.Digest, b.Digest, false
	}
	return "", "", "", true
}
