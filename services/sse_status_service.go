// services/sse_status_service.go
package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"bounty-board-service/workers"
)

// StreamTask handles GET /sync/:id/stream: the task's status line
// ("Indexing...", "Indexing 1s", ...) as server-sent events, one event per
// change, closing after the terminal snapshot.
func (s *SyncService) StreamTask(c *fiber.Ctx) error {
	task, ok := s.Registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"code":    "not_found",
			"message": "unknown task",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		// Initial keepalive comment, then the current snapshot right away.
		w.WriteString(":\n\n")
		w.Flush()

		var lastStatus, lastState string
		emit := func() (terminal bool, writeErr error) {
			snap := task.Snapshot()
			if snap.Status != lastStatus || snap.State != lastState {
				lastStatus, lastState = snap.Status, snap.State
				payload, _ := json.Marshal(snap)
				fmt.Fprintf(w, "event: status\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return false, err
				}
			}
			return workers.TaskState(snap.State).Terminal(), nil
		}

		if terminal, err := emit(); terminal || err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				if terminal, err := emit(); terminal || err != nil {
					return
				}
			case <-task.Done():
				emit()
				return
			case <-c.Context().Done():
				// Client went away mid-poll; the task itself keeps running
				// unless it is explicitly canceled.
				return
			}
		}
	})

	return nil
}
