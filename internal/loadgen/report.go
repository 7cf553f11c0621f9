package loadgen

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Report summarizes a run
type Report struct {
	Requests    int
	Created     int
	Failed      int
	Completed   int
	StatusCodes map[int]int
	// Duplicates lists order numbers handed out more than once
	Duplicates []string
	Elapsed    time.Duration
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Max        time.Duration
	// Stats is the server's view after the run, when admin credentials were given
	Stats *Stats
}

// OK reports whether every checkout succeeded with a distinct order number
func (r *Report) OK() bool {
	return r.Failed == 0 && len(r.Duplicates) == 0
}

// Throughput is accepted checkouts per second
func (r *Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Created) / r.Elapsed.Seconds()
}

// Print writes a console summary
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "requests:   %d\n", r.Requests)
	fmt.Fprintf(w, "created:    %d (%.1f/s)\n", r.Created, r.Throughput())
	fmt.Fprintf(w, "failed:     %d\n", r.Failed)
	if r.Completed > 0 {
		fmt.Fprintf(w, "completed:  %d\n", r.Completed)
	}
	fmt.Fprintf(w, "latency:    p50=%s p95=%s p99=%s max=%s\n", r.P50, r.P95, r.P99, r.Max)

	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "transport"
		}
		fmt.Fprintf(w, "  %-9s  %d\n", label, r.StatusCodes[code])
	}

	if len(r.Duplicates) > 0 {
		fmt.Fprintf(w, "DUPLICATE order numbers: %v\n", r.Duplicates)
	}
	if r.Stats != nil {
		fmt.Fprintf(w, "server:     total=%d pending=%d completed=%d today=%d revenue=%.2f\n",
			r.Stats.TotalOrders, r.Stats.PendingOrders, r.Stats.CompletedOrders,
			r.Stats.TodaysOrders, r.Stats.TotalRevenue)
	}
}

type collector struct {
	mu        sync.Mutex
	requests  int
	failed    int
	done      int
	codes     map[int]int
	numbers   map[string]int
	latencies []time.Duration
}

func newCollector() *collector {
	return &collector{
		codes:   make(map[int]int),
		numbers: make(map[string]int),
	}
}

// record stores one checkout. Status 0 means a transport or decoding failure.
func (c *collector) record(status int, orderNumber string, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	c.codes[status]++
	c.latencies = append(c.latencies, elapsed)
	if orderNumber == "" {
		c.failed++
		return
	}
	c.numbers[orderNumber]++
}

func (c *collector) completed() {
	c.mu.Lock()
	c.done++
	c.mu.Unlock()
}

func (c *collector) report(elapsed time.Duration) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := &Report{
		Requests:    c.requests,
		Created:     len(c.numbers),
		Failed:      c.failed,
		Completed:   c.done,
		StatusCodes: make(map[int]int, len(c.codes)),
		Elapsed:     elapsed,
	}
	for code, n := range c.codes {
		r.StatusCodes[code] = n
	}
	for number, n := range c.numbers {
		if n > 1 {
			r.Duplicates = append(r.Duplicates, number)
			r.Created += n - 1
		}
	}
	sort.Strings(r.Duplicates)

	if len(c.latencies) > 0 {
		sorted := append([]time.Duration(nil), c.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		r.P50 = percentile(sorted, 0.50)
		r.P95 = percentile(sorted, 0.95)
		r.P99 = percentile(sorted, 0.99)
		r.Max = sorted[len(sorted)-1]
	}
	return r
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
