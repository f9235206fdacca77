// Package transcript records what a session did, line by line.
//
// An Entry is the serializable form of one engine.Response: the raw line,
// its status, the text it printed and the transaction depth afterwards. Each
// entry carries a content digest (SHA-256 over domain-separated canonical
// JSON) so a replay can prove it produced byte-identical results.
//
// Transcripts are an audit trail. The live store is never rebuilt from them.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/txkv/internal/engine"
)

// DomainEntry separates entry digests from any other hash in the system.
// The version suffix allows the encoding to change later.
const DomainEntry = "txkv/entry/v1"

// EchoPrefix marks output lines in the echo format.
const EchoPrefix = "> "

// Entry is one evaluated line.
type Entry struct {
	Seq       int64  `json:"seq"`
	Line      string `json:"line"`
	Status    string `json:"status"`
	Output    string `json:"output,omitempty"`
	HasOutput bool   `json:"has_output"`
	Depth     int    `json:"depth"`
	Digest    string `json:"digest,omitempty"`
}

// Session is a recorded session and its entries in seq order.
type Session struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	Entries []Entry `json:"entries"`
}

// FromResponse converts a response into an entry without a digest.
func FromResponse(resp engine.Response) Entry {
	out, printed := resp.Output()
	return Entry{
		Seq:       resp.Seq,
		Line:      resp.Line,
		Status:    string(resp.Status),
		Output:    out,
		HasOutput: printed,
		Depth:     resp.Depth,
	}
}

// Digest computes the content digest of e within a session.
// The Digest field itself is not part of the hashed content.
func Digest(sessionID string, e Entry) (string, error) {
	obj := map[string]any{
		"session_id": sessionID,
		"seq":        e.Seq,
		"line":       e.Line,
		"status":     e.Status,
		"output":     e.Output,
		"has_output": e.HasOutput,
		"depth":      e.Depth,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("entry digest: %w", err)
	}
	return hashWithDomain(DomainEntry, canonical), nil
}

// Seal returns e with its Digest computed for sessionID.
func Seal(sessionID string, e Entry) (Entry, error) {
	d, err := Digest(sessionID, e)
	if err != nil {
		return Entry{}, err
	}
	e.Digest = d
	return e, nil
}

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// WriteEcho writes e in the echo format: the input line, then its output
// (if any) prefixed with "> ".
func WriteEcho(w io.Writer, e Entry) error {
	if _, err := fmt.Fprintln(w, e.Line); err != nil {
		return err
	}
	if e.HasOutput {
		if _, err := fmt.Fprintln(w, EchoPrefix+e.Output); err != nil {
			return err
		}
	}
	return nil
}

// FormatEcho renders entries in the echo format.
func FormatEcho(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		_ = WriteEcho(&sb, e)
	}
	return sb.String()
}
