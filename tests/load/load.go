package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	baseURL      = "http://localhost:8080"
	targetRPS    = 5
	testDuration = 2 * time.Minute
)

var rng *rand.Rand

type RegisterRequest struct {
	FullName   string `json:"fullName"`
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run load.go <scenario>")
		fmt.Println("Scenarios: health, auth, projects, exchanges, all")
		fmt.Println("Authorized scenarios read a Bearer token from LOAD_TOKEN")
		os.Exit(1)
	}

	scenario := os.Args[1]
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))

	var metrics vegeta.Metrics
	var err error

	switch scenario {
	case "health":
		metrics, err = testHealth()
	case "auth":
		metrics, err = testAuth()
	case "projects":
		metrics, err = testProjects()
	case "exchanges":
		metrics, err = testExchanges()
	case "all":
		metrics, err = testAll()
	default:
		fmt.Printf("Unknown scenario: %s\n", scenario)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printMetrics(metrics)
}

func testHealth() (vegeta.Metrics, error) {
	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: "GET",
		URL:    baseURL + "/health",
	})

	return runAttack(targeter, "Health Check")
}

func testAuth() (vegeta.Metrics, error) {
	unique := rng.Intn(1000000)
	email := fmt.Sprintf("load_%d@campus.edu", unique)

	targeter := vegeta.NewStaticTargeter(
		vegeta.Target{
			Method: "POST",
			URL:    baseURL + "/api/auth/register",
			Body:   createRegisterBody(unique, email),
			Header: jsonHeader(),
		},
		vegeta.Target{
			Method: "POST",
			URL:    baseURL + "/api/auth/login",
			Body:   createLoginBody(email),
			Header: jsonHeader(),
		},
	)

	return runAttack(targeter, "Auth Operations")
}

func testProjects() (vegeta.Metrics, error) {
	targeter := vegeta.NewStaticTargeter(
		vegeta.Target{
			Method: "GET",
			URL:    baseURL + "/api/projects",
		},
	)

	return runAttack(targeter, "Project Listing")
}

func testExchanges() (vegeta.Metrics, error) {
	targeter := vegeta.NewStaticTargeter(
		vegeta.Target{
			Method: "GET",
			URL:    baseURL + "/api/exchanges/browse",
		},
	)

	return runAttack(targeter, "Exchange Browse")
}

func testAll() (vegeta.Metrics, error) {
	unique := rng.Intn(1000000)
	email := fmt.Sprintf("load_all_%d@campus.edu", unique)

	targeter := vegeta.NewStaticTargeter(
		vegeta.Target{
			Method: "GET",
			URL:    baseURL + "/health",
		},
		vegeta.Target{
			Method: "POST",
			URL:    baseURL + "/api/auth/register",
			Body:   createRegisterBody(unique, email),
			Header: jsonHeader(),
		},
		vegeta.Target{
			Method: "GET",
			URL:    baseURL + "/api/projects",
		},
		vegeta.Target{
			Method: "GET",
			URL:    baseURL + "/api/exchanges/browse",
		},
	)

	return runAttack(targeter, "All Endpoints")
}

func runAttack(targeter vegeta.Targeter, name string) (vegeta.Metrics, error) {
	rate := vegeta.Rate{Freq: targetRPS, Per: time.Second}
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, testDuration, name) {
		metrics.Add(res)
	}
	metrics.Close()

	return metrics, nil
}

func jsonHeader() http.Header {
	return http.Header{
		"Content-Type": []string{"application/json"},
	}
}

func createRegisterBody(unique int, email string) []byte {
	req := RegisterRequest{
		FullName:   "Load Tester",
		RollNumber: fmt.Sprintf("LOAD%d", unique),
		Email:      email,
		Password:   "loadpass123",
	}
	body, _ := json.Marshal(req)
	return body
}

func createLoginBody(email string) []byte {
	req := LoginRequest{
		Email:    email,
		Password: "loadpass123",
	}
	body, _ := json.Marshal(req)
	return body
}

func printMetrics(metrics vegeta.Metrics) {
	fmt.Printf("\n=== Load Test Results ===\n\n")
	fmt.Printf("Requests Total:     %d\n", metrics.Requests)
	fmt.Printf("Success Rate:       %.2f%%\n", metrics.Success*100)
	fmt.Printf("Duration:           %v\n", metrics.Duration)

	if metrics.Requests > 0 {
		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Mean:             %v\n", metrics.Latencies.Mean)
		fmt.Printf("  P50:              %v\n", metrics.Latencies.P50)
		fmt.Printf("  P95:              %v\n", metrics.Latencies.P95)
		fmt.Printf("  P99:              %v\n", metrics.Latencies.P99)
		fmt.Printf("  Max:              %v\n", metrics.Latencies.Max)

		fmt.Printf("\nThroughput:\n")
		fmt.Printf("  Requests/sec:     %.2f\n", metrics.Rate)

		fmt.Printf("\nStatus Codes:\n")
		for code, count := range metrics.StatusCodes {
			fmt.Printf("  %s: %d\n", code, count)
		}

		fmt.Printf("\nErrors:\n")
		if len(metrics.Errors) > 0 {
			for _, err := range metrics.Errors {
				fmt.Printf("  %s\n", err)
			}
		} else {
			fmt.Printf("  None\n")
		}

		fmt.Printf("\nSLI Compliance:\n")
		p95ms := metrics.Latencies.P95.Seconds() * 1000
		successRate := metrics.Success * 100
		fmt.Printf("  P95 Latency:      %.2f ms (target: < 300ms) - %s\n",
			p95ms,
			checkStatus(p95ms < 300, "PASS", "FAIL"))
		fmt.Printf("  Success Rate:     %.2f%% (target: > 99.9%%) - %s\n",
			successRate,
			checkStatus(successRate >= 99.9, "PASS", "FAIL"))
	}
	fmt.Printf("\n")
}

func checkStatus(condition bool, pass, fail string) string {
	if condition {
		return pass
	}
	return fail
}
