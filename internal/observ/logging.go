package observ

import (
	"encoding/json"
	"fmt"
	"time"
)

var runID string

// SetRunID tags every subsequent log line with the given run identifier.
func SetRunID(id string) { runID = id }

func Log(event string, kv map[string]any) {
	if kv == nil {
		kv = map[string]any{}
	}
	kv["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	kv["event"] = event
	if runID != "" {
		kv["run_id"] = runID
	}
	b, _ := json.Marshal(kv)
	fmt.Println(string(b))
}
