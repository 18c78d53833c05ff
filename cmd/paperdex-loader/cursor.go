// Cursor tracks ingest progress for resume. It lives as a JSON value in
// Redis next to the catalog itself, so a rescheduled loader pod resumes
// without a persistent volume.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

const (
	cursorKey         = "paperdex:loader:cursor"
	cursorSaveTimeout = 5 * time.Second
)

// Cursor holds the position in the ingest stream.
type Cursor struct {
	RunID          string    `json:"run_id"`
	Stage          string    `json:"stage"`
	FileIndex      int       `json:"file_index"`
	RowOffset      int       `json:"row_offset"`
	TotalProcessed int       `json:"total_processed"`
	TotalFailed    int       `json:"total_failed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// cursorTracker is a thread-safe progress tracker with periodic saves.
type cursorTracker struct {
	mu        sync.Mutex
	cursor    Cursor
	client    rueidis.Client
	saveEvery int
	dirty     bool
}

// newCursorTracker loads the previous run's state when one exists. The
// current run id replaces the stored one; position and totals survive.
func newCursorTracker(
	ctx context.Context, client rueidis.Client, saveEvery int, runID string,
) (*cursorTracker, error) {
	ct := &cursorTracker{
		client:    client,
		saveEvery: saveEvery,
	}

	resp := client.Do(ctx, client.B().Get().Key(cursorKey).Build())
	if err := resp.Error(); err != nil {
		if !rueidis.IsRedisNil(err) {
			return nil, fmt.Errorf("read cursor %s: %w", cursorKey, err)
		}
	} else {
		data, err := resp.AsBytes()
		if err != nil {
			return nil, fmt.Errorf("read cursor %s: %w", cursorKey, err)
		}
		if err := json.Unmarshal(data, &ct.cursor); err != nil {
			return nil, fmt.Errorf("parse cursor %s: %w", cursorKey, err)
		}
		log.Printf("resume from cursor: stage=%s file=%d offset=%d processed=%d (previous run %s)",
			ct.cursor.Stage, ct.cursor.FileIndex, ct.cursor.RowOffset,
			ct.cursor.TotalProcessed, ct.cursor.RunID)
	}

	ct.cursor.RunID = runID
	return ct, nil
}

// Get returns a copy of the current cursor.
func (ct *cursorTracker) Get() Cursor {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.cursor
}

// SetStage records the current pipeline stage and saves.
func (ct *cursorTracker) SetStage(stage string) {
	ct.mu.Lock()
	ct.cursor.Stage = stage
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}

// Advance moves the cursor past processed rows. Positions only ever move
// forward; workers finish batches out of order. Saves every saveEvery
// rows.
func (ct *cursorTracker) Advance(fileIndex, rowOffset, processed, failed int) {
	ct.mu.Lock()
	if fileIndex > ct.cursor.FileIndex ||
		(fileIndex == ct.cursor.FileIndex && rowOffset > ct.cursor.RowOffset) {
		ct.cursor.FileIndex = fileIndex
		ct.cursor.RowOffset = rowOffset
	}
	ct.cursor.TotalProcessed += processed
	ct.cursor.TotalFailed += failed
	ct.cursor.UpdatedAt = time.Now()
	ct.dirty = true
	shouldSave := ct.cursor.TotalProcessed%ct.saveEvery < processed
	ct.mu.Unlock()

	if shouldSave {
		ct.forceSave()
	}
}

// forceSave writes the cursor to Redis. Uses its own deadline so the
// final save still lands after the run context is canceled.
func (ct *cursorTracker) forceSave() {
	ct.mu.Lock()
	if !ct.dirty {
		ct.mu.Unlock()
		return
	}
	data, err := json.Marshal(ct.cursor)
	if err != nil {
		ct.mu.Unlock()
		log.Printf("cursor marshal error: %v", err)
		return
	}
	ct.dirty = false
	ct.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cursorSaveTimeout)
	defer cancel()

	cmd := ct.client.B().Set().Key(cursorKey).Value(string(data)).Build()
	if err := ct.client.Do(ctx, cmd).Error(); err != nil {
		log.Printf("cursor save error: %v", err)
		ct.mu.Lock()
		ct.dirty = true
		ct.mu.Unlock()
	}
}

// Done marks the run finished.
func (ct *cursorTracker) Done() {
	ct.SetStage("done")
}

// Reset clears the stored position, keeping the run id.
func (ct *cursorTracker) Reset() {
	ct.mu.Lock()
	ct.cursor = Cursor{RunID: ct.cursor.RunID}
	ct.dirty = true
	ct.mu.Unlock()
	ct.forceSave()
}
