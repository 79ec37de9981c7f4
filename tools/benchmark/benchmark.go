// Package main provides a simple HTTP benchmark tool for the classify endpoint
package main

import (
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// triples rotated through by the workers, covering every label
var triples = [][3]string{
	{"A", "B", "C"},
	{"-1", "0", "0"},
	{"5", "2", "2"},
	{"2", "2", "2"},
	{"2", "2", "3"},
	{"4", "6", "5"},
}

func main() {
	base := flag.String("url", "http://localhost:8080/classify", "Target URL")
	duration := flag.Duration("duration", 10*time.Second, "Test duration")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification")
	flag.Parse()

	fmt.Printf("Benchmarking %s\n", *base)
	fmt.Printf("Duration: %v, Concurrency: %d\n\n", *duration, *concurrency)

	targets := make([]string, len(triples))
	for i, tr := range triples {
		q := url.Values{}
		q.Set("a", tr[0])
		q.Set("b", tr[1])
		q.Set("c", tr[2])
		targets[i] = *base + "?" + q.Encode()
	}

	// Create HTTP client
	tr := &http.Transport{
		MaxIdleConns:        *concurrency * 2,
		MaxIdleConnsPerHost: *concurrency * 2,
		IdleConnTimeout:     90 * time.Second,
	}
	if *insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	client := &http.Client{
		Transport: tr,
		Timeout:   5 * time.Second,
	}

	var (
		totalRequests int64
		totalErrors   int64
		totalLatency  int64 // in microseconds
		minLatency    int64 = 1<<63 - 1
		maxLatency    int64
		wg            sync.WaitGroup
		stop          = make(chan struct{})
		labelsMu      sync.Mutex
		labels        = map[string]int64{}
	)

	// Start workers
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			local := map[string]int64{}
			defer func() {
				labelsMu.Lock()
				for k, v := range local {
					labels[k] += v
				}
				labelsMu.Unlock()
			}()

			for n := worker; ; n++ {
				select {
				case <-stop:
					return
				default:
					start := time.Now()
					resp, err := client.Get(targets[n%len(targets)])
					latency := time.Since(start).Microseconds()

					if err != nil {
						atomic.AddInt64(&totalErrors, 1)
						continue
					}

					var body struct {
						Label string `json:"label"`
					}
					decodeErr := json.NewDecoder(resp.Body).Decode(&body)
					_ = resp.Body.Close()

					if resp.StatusCode != http.StatusOK || decodeErr != nil {
						atomic.AddInt64(&totalErrors, 1)
						continue
					}

					local[body.Label]++
					atomic.AddInt64(&totalRequests, 1)
					atomic.AddInt64(&totalLatency, latency)

					// Update min/max (approximate, not perfectly thread-safe)
					for {
						old := atomic.LoadInt64(&minLatency)
						if latency >= old || atomic.CompareAndSwapInt64(&minLatency, old, latency) {
							break
						}
					}
					for {
						old := atomic.LoadInt64(&maxLatency)
						if latency <= old || atomic.CompareAndSwapInt64(&maxLatency, old, latency) {
							break
						}
					}
				}
			}
		}(i)
	}

	// Progress ticker
	ticker := time.NewTicker(time.Second)
	go func() {
		elapsed := 0
		for range ticker.C {
			elapsed++
			reqs := atomic.LoadInt64(&totalRequests)
			errs := atomic.LoadInt64(&totalErrors)
			fmt.Printf("[%ds] Requests: %d, Errors: %d, RPS: %.0f\n",
				elapsed, reqs, errs, float64(reqs)/float64(elapsed))
		}
	}()

	// Wait for duration
	time.Sleep(*duration)
	close(stop)
	ticker.Stop()
	wg.Wait()

	// Results
	reqs := atomic.LoadInt64(&totalRequests)
	errs := atomic.LoadInt64(&totalErrors)
	latencyTotal := atomic.LoadInt64(&totalLatency)
	minLat := atomic.LoadInt64(&minLatency)
	maxLat := atomic.LoadInt64(&maxLatency)

	avgLatency := float64(0)
	if reqs > 0 {
		avgLatency = float64(latencyTotal) / float64(reqs)
	}

	rps := float64(reqs) / duration.Seconds()

	fmt.Println("\n========== RESULTS ==========")
	fmt.Printf("Total requests:  %d\n", reqs)
	fmt.Printf("Total errors:    %d\n", errs)
	fmt.Printf("Duration:        %v\n", *duration)
	fmt.Printf("Concurrency:     %d\n", *concurrency)
	fmt.Println()
	fmt.Printf("RPS:             %.2f\n", rps)
	fmt.Printf("RPM:             %.0f\n", rps*60)
	fmt.Println()
	fmt.Printf("Latency avg:     %.2f µs (%.3f ms)\n", avgLatency, avgLatency/1000)
	fmt.Printf("Latency min:     %d µs (%.3f ms)\n", minLat, float64(minLat)/1000)
	fmt.Printf("Latency max:     %d µs (%.3f ms)\n", maxLat, float64(maxLat)/1000)
	fmt.Println()

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-30s %d\n", name+":", labels[name])
	}

	if errs > 0 {
		os.Exit(1)
	}
}
