package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/focushub/focushub/internal/models"
)

// SyncTimerData is the sync tag that triggers an upload of queued offline
// timer writes.
const SyncTimerData = "sync-timer-data"

const syncEndpoint = "/api/timer/sync"

type syncPayload struct {
	Data []models.PendingSync `json:"data"`
}

// HandleSync drains the pending queue for a recognized sync tag. The queue
// clears only after the backend acknowledges the upload, so a failed POST
// leaves everything queued for the next attempt.
func (w *Worker) HandleSync(tag, baseURL string) error {
	if tag != SyncTimerData {
		return fmt.Errorf("unknown sync tag: %q", tag)
	}

	items, err := w.db.Pending()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	body, err := json.Marshal(syncPayload{Data: items})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(
		http.MethodPost,
		baseURL+syncEndpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Transport: w.transport,
		Timeout:   syncTimeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sync rejected: %s", resp.Status)
	}

	err = w.db.ClearPending()
	if err != nil {
		return err
	}

	slog.Info("synced offline timer data", slog.Int("count", len(items)))

	return nil
}
