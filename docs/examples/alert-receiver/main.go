// Fintrack budget alert receiver example.
//
// A minimal endpoint that verifies and logs budget alerts delivered by
// fintrack's ALERT_WEBHOOK_URL sink.
//
// Usage:
//
//	export FINTRACK_ALERT_SECRET="same value as ALERT_WEBHOOK_SECRET"
//	go run main.go
//
// Then start fintrack with ALERT_WEBHOOK_URL=http://localhost:9000/alerts
// (APP_ENV=development allows plain HTTP to localhost).
package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// replayWindow is how far a delivery timestamp may be from now.
const replayWindow = 5 * time.Minute

// BudgetExceeded is the alert payload. Amounts arrive as decimal strings.
type BudgetExceeded struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Category   string    `json:"category"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Limit      string    `json:"limit"`
	Spent      string    `json:"spent"`
	OccurredAt time.Time `json:"occurred_at"`
}

func main() {
	secret := os.Getenv("FINTRACK_ALERT_SECRET")
	if secret == "" {
		log.Fatal("FINTRACK_ALERT_SECRET environment variable is required")
	}

	http.HandleFunc("POST /alerts", alertHandler(secret))
	http.HandleFunc("GET /health", healthHandler)

	log.Println("Starting alert receiver on :9000")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

func alertHandler(secret string) http.HandlerFunc {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		ts, err := strconv.ParseInt(r.Header.Get("X-Fintrack-Timestamp"), 10, 64)
		if err != nil {
			http.Error(w, "Missing timestamp", http.StatusUnauthorized)
			return
		}
		if !verifySignature(secret, r.Header.Get("X-Fintrack-Signature"), ts, body) {
			log.Println("rejected delivery: bad signature or stale timestamp")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		// Retries reuse the delivery id.
		deliveryID := r.Header.Get("X-Fintrack-Delivery-Id")
		mu.Lock()
		_, dup := seen[deliveryID]
		seen[deliveryID] = struct{}{}
		mu.Unlock()
		if dup {
			w.WriteHeader(http.StatusOK)
			return
		}

		var alert BudgetExceeded
		if err := json.Unmarshal(body, &alert); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		log.Printf("budget exceeded: user=%s category=%s period=%04d-%02d spent=%s limit=%s",
			alert.UserID, alert.Category, alert.Year, alert.Month, alert.Spent, alert.Limit)

		w.WriteHeader(http.StatusNoContent)
	}
}

// verifySignature checks the HMAC-SHA256 of "{timestamp}.{body}".
func verifySignature(secret, signature string, ts int64, body []byte) bool {
	age := time.Since(time.Unix(ts, 0))
	if age > replayWindow || age < -replayWindow {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10) + "."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
