package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

var departments = []string{"IT", "HR", "Sales", "Ops", "Finance", "Legal"}

// randomEmployee builds an employee of a random kind
func randomEmployee(rng *rand.Rand, id int64) domain.Employee {
	dept := departments[rng.Intn(len(departments))]
	basic := 1000 + rng.Intn(4000)

	switch rng.Intn(4) {
	case 0:
		return domain.NewRegular(id, dept, basic)
	case 1:
		return domain.NewWageEmployee(id, dept, basic, 10+rng.Intn(40), rng.Intn(180))
	case 2:
		return domain.NewSalesPerson(id, dept, basic, 10+rng.Intn(40), rng.Intn(180), 1+rng.Intn(15), rng.Intn(100000))
	default:
		// quarter steps keep ties between managers likely
		return domain.NewManager(id, dept, basic, float64(4+rng.Intn(9))/4)
	}
}

// insertEmployee sends a POST request to insert an employee
func insertEmployee(client *http.Client, baseURL string, e domain.Employee) error {
	body, err := json.Marshal(codec.FromEmployee(e))
	if err != nil {
		return fmt.Errorf("failed to marshal employee: %w", err)
	}

	resp, err := client.Post(baseURL+"/employees", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func main() {
	count := pflag.IntP("count", "n", 1000, "Number of employees to insert")
	serverURL := pflag.StringP("url", "u", "http://localhost:8080", "staffdb server URL")
	startID := pflag.Int64("start-id", 1, "First employee id; ids increase by one")
	seed := pflag.Int64("seed", time.Now().UnixNano(), "Random seed")
	pflag.Parse()

	if *count <= 0 {
		fmt.Println("Error: --count must be greater than 0")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("Starting load test: inserting %d employees to %s\n", *count, *serverURL)
	fmt.Println("Press Ctrl+C to stop early")

	// Track timing and statistics
	startTime := time.Now()
	successCount := 0
	errorCount := 0

	// Report every 10% or at least every request
	reportInterval := max(1, *count/10)

	for i := 0; i < *count; i++ {
		e := randomEmployee(rng, *startID+int64(i))

		if err := insertEmployee(client, *serverURL, e); err != nil {
			errorCount++
			fmt.Printf("Error inserting employee %d (%s): %v\n", e.ID(), e.Kind(), err)
		} else {
			successCount++
		}

		if (i+1)%reportInterval == 0 || i == *count-1 {
			elapsed := time.Since(startTime)
			rate := float64(i+1) / elapsed.Seconds()
			fmt.Printf("Progress: %d/%d employees (%.1f%%) - Rate: %.1f employees/sec - Success: %d, Errors: %d\n",
				i+1, *count, float64(i+1)/float64(*count)*100, rate, successCount, errorCount)
		}
	}

	// Final statistics
	totalTime := time.Since(startTime)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total employees attempted: %d\n", *count)
	fmt.Printf("Successful inserts:        %d\n", successCount)
	fmt.Printf("Failed inserts:            %d\n", errorCount)
	fmt.Printf("Success rate:              %.2f%%\n", float64(successCount)/float64(*count)*100)
	fmt.Printf("Total time:                %v\n", totalTime)
	fmt.Printf("Average rate:              %.2f employees/sec\n", float64(*count)/totalTime.Seconds())

	if errorCount > 0 {
		fmt.Printf("\nWarning: %d errors occurred during the load test\n", errorCount)
		os.Exit(1)
	}

	fmt.Println("\nLoad test completed successfully!")
}
