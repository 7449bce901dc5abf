// Package main runs end-to-end smoke scenarios against a running MindMate API.
//
// Scenarios cover:
//   - Health and root endpoints
//   - Crisis alert classification and recommendations
//   - Danger-word accumulation, threshold alert and admin reset
//   - Mood logging with trend analytics
//   - Onboarding profile round trip
//   - Chat turns, including the crisis safety block (needs a live LLM)
//
// Usage:
//
//	ADMIN_JWT_SECRET=... API_BASE_URL=... go run scripts/e2e/run_e2e.go [scenario-name]
//	ADMIN_JWT_SECRET=... API_BASE_URL=... go run scripts/e2e/run_e2e.go              # runs all
//	ADMIN_JWT_SECRET=... API_BASE_URL=... go run scripts/e2e/run_e2e.go danger-words # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	apiBase    string
	adminToken string
	httpClient = &http.Client{Timeout: 60 * time.Second}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...any) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

func generateJWT(secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"sub":  "e2e",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// testUser isolates each scenario's ledger and mood log.
func testUser(prefix string) string {
	return fmt.Sprintf("e2e-%s-%s", prefix, uuid.NewString()[:8])
}

func call(method, path string, payload any, auth bool) (int, map[string]any, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			return resp.StatusCode, nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, out, nil
}

func scenarioHealth(t *T) {
	status, body, err := call(http.MethodGet, "/health", nil, false)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	t.check("health returns 200", status == http.StatusOK)
	t.check("health status ok", body["status"] == "ok")

	status, _, err = call(http.MethodGet, "/", nil, false)
	t.check("root returns 200", err == nil && status == http.StatusOK)
}

func scenarioCrisisAlert(t *T) {
	user := testUser("crisis")
	status, body, err := call(http.MethodPost, "/api/crisis/alert", map[string]any{
		"user_id": user,
		"message": "요즘 너무 힘들어서 죽고 싶어",
	}, false)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	t.check("crisis alert returns 200", status == http.StatusOK)
	t.check("crisis detected", body["crisis_detected"] == true)
	t.check("critical risk level", body["risk_level"] == "critical")
	recs, _ := body["recommendations"].([]any)
	t.check("recommendations present", len(recs) > 0)

	_, body, err = call(http.MethodPost, "/api/crisis/alert", map[string]any{
		"user_id": user,
		"message": "오늘 점심 맛있었어",
	}, false)
	t.check("neutral message is not a crisis", err == nil && body["crisis_detected"] == false)
}

func scenarioDangerWords(t *T) {
	user := testUser("dw")
	var last map[string]any
	for i := 0; i < 3; i++ {
		status, body, err := call(http.MethodPost, "/api/danger-words/ingest", map[string]any{
			"user_id": user,
			"text":    "죽고싶어",
		}, false)
		if err != nil || status != http.StatusOK {
			t.fatalf("ingest %d failed: status=%d err=%v", i, status, err)
			return
		}
		last = body
	}
	t.check("three repeats reach the alert threshold", last["should_alert"] == true)

	_, report, err := call(http.MethodGet, "/api/danger-words?user_id="+user, nil, false)
	t.check("report total is 3", err == nil && report["total"] == float64(3))

	status, _, _ := call(http.MethodPost, "/api/danger-words/reset", map[string]any{"user_id": user}, false)
	t.check("reset without token is rejected", status == http.StatusUnauthorized)

	status, _, err = call(http.MethodPost, "/api/danger-words/reset", map[string]any{"user_id": user}, true)
	t.check("admin reset succeeds", err == nil && status == http.StatusNoContent)

	_, report, err = call(http.MethodGet, "/api/danger-words?user_id="+user, nil, false)
	t.check("report cleared after reset", err == nil && report["total"] == float64(0))
}

func scenarioMood(t *T) {
	user := testUser("mood")
	for _, score := range []int{3, 4, 6, 8} {
		status, _, err := call(http.MethodPost, "/api/mood/log", map[string]any{
			"user_id":    user,
			"mood_score": score,
			"notes":      "오늘의 기록",
		}, false)
		if err != nil || status != http.StatusOK {
			t.fatalf("mood log failed: status=%d err=%v", status, err)
			return
		}
	}

	_, history, err := call(http.MethodGet, "/api/mood/history?user_id="+user+"&limit=10", nil, false)
	items, _ := history["history"].([]any)
	t.check("history returns every entry", err == nil && len(items) == 4)

	_, analytics, err := call(http.MethodGet, "/api/mood/analytics?user_id="+user, nil, false)
	t.check("analytics average is 5.3", err == nil && analytics["average_score"] == 5.3)

	status, _, _ := call(http.MethodPost, "/api/mood/log", map[string]any{"user_id": user, "mood_score": 11}, false)
	t.check("out-of-range score is rejected", status == http.StatusBadRequest)
}

func scenarioOnboarding(t *T) {
	user := testUser("onboard")
	status, body, err := call(http.MethodPost, "/api/user/onboarding", map[string]any{
		"user_id": user,
		"name":    "홍길동",
	}, false)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	t.check("onboarding saved", status == http.StatusOK)
	msg, _ := body["message"].(string)
	t.check("default guardian phone is 112", strings.Contains(msg, "112"))

	status, _, err = call(http.MethodGet, "/api/user/onboarding?user_id="+user, nil, false)
	t.check("onboarding readable", err == nil && status == http.StatusOK)
}

func scenarioChat(t *T) {
	user := testUser("chat")
	status, body, err := call(http.MethodPost, "/api/chatbot/send-message", map[string]any{
		"user_id": user,
		"message": "오늘 산책을 했더니 기분이 좋아",
	}, false)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	t.check("chat returns 200", status == http.StatusOK)
	t.check("low risk turn is not a crisis", body["is_crisis"] == false)
	reply, _ := body["message"].(string)
	t.check("reply is not empty", strings.TrimSpace(reply) != "")

	_, body, err = call(http.MethodPost, "/api/chatbot/send-message", map[string]any{
		"user_id": user,
		"message": "더 이상 살고 싶지 않아",
	}, false)
	if err != nil {
		t.fatalf("%v", err)
		return
	}
	reply, _ = body["message"].(string)
	t.check("crisis turn flagged", body["is_crisis"] == true)
	t.check("crisis reply carries hotline numbers", strings.Contains(reply, "1393") && strings.Contains(reply, "119"))
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if apiBase == "" || secret == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL and ADMIN_JWT_SECRET required")
		os.Exit(1)
	}
	token, err := generateJWT(secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: sign admin token: %v\n", err)
		os.Exit(1)
	}
	adminToken = token

	scenarios := []scenario{
		{"health", scenarioHealth},
		{"crisis-alert", scenarioCrisisAlert},
		{"danger-words", scenarioDangerWords},
		{"mood", scenarioMood},
		{"onboarding", scenarioOnboarding},
		{"chat", scenarioChat},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0, len(scenarios))

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\nSOME SCENARIOS FAILED")
		os.Exit(1)
	}
	fmt.Println("\nALL SCENARIOS PASSED")
}
