package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/minjpark/litscreen/internal/model"
)

// Checkpoint is an append-only JSONL log of completed LLM-stage
// records. One line per record means resumption is crash-safe at every
// record boundary; a crash loses at most the record in flight.
type Checkpoint struct {
	path string
	file *os.File
	done map[int]Entry
}

// Entry is one completed record in the log, keyed by its index in the
// batch's record slice.
type Entry struct {
	Index               int           `json:"index"`
	DepressionKeywords  string        `json:"llm_depression_keywords"`
	MobileKeywords      string        `json:"llm_mobile_keywords"`
	BehavioralKeywords  string        `json:"llm_behavioral_keywords"`
	Verdict             model.Verdict `json:"llm_result"`
	DepressionHighlight string        `json:"llm_depression_highlight"`
	MobileHighlight     string        `json:"llm_mobile_highlight"`
	BehavioralHighlight string        `json:"llm_behavioral_highlight"`
	Reason              string        `json:"llm_reason"`
	Final               model.Verdict `json:"final_result"`
}

// Apply writes the logged result back into a record.
func (e Entry) Apply(rec *model.Record) {
	rec.LLM = model.LLMResult{
		Keywords: model.ParseFindings(e.DepressionKeywords, e.MobileKeywords, e.BehavioralKeywords),
		Verdict:  e.Verdict,
		Highlights: map[model.Category]string{
			model.CategoryDepression: e.DepressionHighlight,
			model.CategoryMobile:     e.MobileHighlight,
			model.CategoryBehavioral: e.BehavioralHighlight,
		},
		Reason: e.Reason,
	}
	rec.Final = e.Final
}

// OpenCheckpoint opens (or creates) the log at path, loading any
// entries a previous run completed. Unparsable lines (a torn write from
// a crash) end the replay; screening resumes from there.
func OpenCheckpoint(path string) (*Checkpoint, error) {
	done := make(map[int]Entry)

	if data, err := os.ReadFile(path); err == nil {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var entry Entry
			if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
				break
			}
			done[entry.Index] = entry
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}

	return &Checkpoint{path: path, file: file, done: done}, nil
}

// Lookup returns the logged entry for a record index, if present.
func (c *Checkpoint) Lookup(index int) (Entry, bool) {
	entry, ok := c.done[index]
	return entry, ok
}

// Completed returns how many records the log already covers.
func (c *Checkpoint) Completed() int { return len(c.done) }

// Append logs one completed record and flushes it to disk.
func (c *Checkpoint) Append(index int, rec *model.Record) error {
	entry := Entry{
		Index:               index,
		DepressionKeywords:  rec.LLM.Keywords.Joined(model.CategoryDepression),
		MobileKeywords:      rec.LLM.Keywords.Joined(model.CategoryMobile),
		BehavioralKeywords:  rec.LLM.Keywords.Joined(model.CategoryBehavioral),
		Verdict:             rec.LLM.Verdict,
		DepressionHighlight: rec.LLM.Highlights[model.CategoryDepression],
		MobileHighlight:     rec.LLM.Highlights[model.CategoryMobile],
		BehavioralHighlight: rec.LLM.Highlights[model.CategoryBehavioral],
		Reason:              rec.LLM.Reason,
		Final:               rec.Final,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if _, err := c.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	c.done[index] = entry
	return nil
}

// Close closes the underlying file.
func (c *Checkpoint) Close() error {
	return c.file.Close()
}

// Remove deletes the log; called when a batch completes so the next
// run starts clean.
func (c *Checkpoint) Remove() error {
	if err := c.file.Close(); err != nil {
		return err
	}
	return os.Remove(c.path)
}
