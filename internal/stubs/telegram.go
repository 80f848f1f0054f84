package stubs

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TelegramStub fakes the two Bot API methods the scanner uses. Seed updates
// via SeedUpdate or the /seed endpoint, then point the client's base_url here.
type TelegramStub struct {
	mu      sync.Mutex
	updates []stubUpdate
	sent    []string
}

type stubUpdate struct {
	UpdateID int64  `json:"update_id"`
	Text     string `json:"text"`
}

func NewTelegramStub() *TelegramStub {
	return &TelegramStub{}
}

// SeedUpdate queues one inbound message.
func (t *TelegramStub) SeedUpdate(id int64, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates = append(t.updates, stubUpdate{UpdateID: id, Text: text})
}

// Sent returns all outbound message texts in delivery order.
func (t *TelegramStub) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

// Handler routes /bot<token>/getUpdates, /bot<token>/sendMessage and /seed.
func (t *TelegramStub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/seed", t.handleSeed)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			t.handleGetUpdates(w, r)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			t.handleSendMessage(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func (t *TelegramStub) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	var u stubUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	t.SeedUpdate(u.UpdateID, u.Text)
	w.WriteHeader(http.StatusAccepted)
}

func (t *TelegramStub) handleGetUpdates(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)

	t.mu.Lock()
	type result struct {
		UpdateID int64 `json:"update_id"`
		Message  struct {
			MessageID int64  `json:"message_id"`
			Date      int64  `json:"date"`
			Text      string `json:"text"`
		} `json:"message"`
	}
	results := []result{}
	for _, u := range t.updates {
		if u.UpdateID < offset {
			continue
		}
		var res result
		res.UpdateID = u.UpdateID
		res.Message.MessageID = u.UpdateID
		res.Message.Date = time.Now().Unix()
		res.Message.Text = u.Text
		results = append(results, res)
	}
	t.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": results})
}

func (t *TelegramStub) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var msg struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	t.mu.Lock()
	t.sent = append(t.sent, msg.Text)
	t.mu.Unlock()
	log.Printf("[telegram-stub] sendMessage chat=%s:\n%s", msg.ChatID, msg.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
