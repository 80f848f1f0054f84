package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/msardana94/momentumbot/internal/decide"
)

// Entry is one run's outcome, appended to the journal file as a JSON line.
type Entry struct {
	RunID      string                  `json:"run_id"`
	At         time.Time               `json:"at"`
	MarketSafe bool                    `json:"market_safe"`
	Rebalance  bool                    `json:"rebalance"`
	Decisions  []decide.Decision       `json:"decisions,omitempty"`
	Buys       []decide.Recommendation `json:"buys,omitempty"`
	Report     string                  `json:"report"`
}

type Journal struct {
	path string
}

func New(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &Journal{path: path}, nil
}

// Append writes one entry. The journal is an audit trail, not state: callers
// treat a write failure as a warning.
func (j *Journal) Append(runID string, res decide.Result, report string) error {
	entry := Entry{
		RunID:      runID,
		At:         time.Now().UTC(),
		MarketSafe: res.MarketSafe,
		Rebalance:  res.Rebalance,
		Decisions:  res.Decisions,
		Buys:       res.Buys,
		Report:     report,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}
