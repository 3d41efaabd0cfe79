package historystore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// transcriptRecord is the on-disk JSONL shape for one event.Event. Kept
// separate from event.Event itself so the pure event model carries no
// serialization tags.
type transcriptRecord struct {
	Seq     int    `json:"seq"`
	Kind    string `json:"kind"`
	Source  string `json:"source"`
	Content string `json:"content,omitempty"`
	Command string `json:"command,omitempty"`
	Path    string `json:"path,omitempty"`
	Code    string `json:"code,omitempty"`
}

func toRecord(ev event.Event) transcriptRecord {
	return transcriptRecord{
		Seq:     ev.Seq,
		Kind:    string(ev.Kind),
		Source:  string(ev.Source),
		Content: ev.Content,
		Command: ev.Command,
		Path:    ev.Path,
		Code:    ev.Code,
	}
}

func (r transcriptRecord) toEvent() event.Event {
	return event.Event{
		Seq:     r.Seq,
		Kind:    event.Kind(r.Kind),
		Source:  event.Source(r.Source),
		Content: r.Content,
		Command: r.Command,
		Path:    r.Path,
		Code:    r.Code,
	}
}

// ReadTranscript reads a newline-delimited JSON transcript file, one Event
// per line, in the format stuckctl and the controller both read. Blank
// lines are skipped; grounded on the teacher's loadIssuesFromJSONL line
// scanner (cmd/bd/jsonl_reader.go).
func ReadTranscript(path string) ([]event.Event, error) {
	// path is caller-supplied (a CLI argument or a file in the controller's
	// watch directory), not derived from untrusted input.
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []event.Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec transcriptRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("transcript line %d: %w", lineNum, err)
		}
		out = append(out, rec.toEvent())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteTranscript appends ev to w as one JSON line, newline-terminated.
func WriteTranscript(w io.Writer, ev event.Event) error {
	data, err := json.Marshal(toRecord(ev))
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
