// Command reqguard-loadtest drives the sliding-window limiter under
// concurrent load and reports admission/verdict latencies. With no
// -redis-addr it spins up an embedded miniredis.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	reqguard "github.com/sirpi-io/reqguard"
)

func main() {
	var (
		clients     = flag.Int("clients", 64, "number of distinct client IPs")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "total evaluations to issue")
		limit       = flag.Int("limit", 60, "requests allowed per window")
		unit        = flag.String("unit", "minute", "window unit (second..week)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "limiter", "limiter key prefix")
	)
	flag.Parse()

	if *clients <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "clients, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := reqguard.DefaultConfig()
	cfg.Limiter.Count = *limit
	cfg.Limiter.Unit = *unit
	cfg.Limiter.KeyPrefix = *prefix

	engine, err := reqguard.New().
		WithConfig(cfg).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ips := make([]string, *clients)
	for i := range ips {
		ips[i] = fmt.Sprintf("10.0.%d.%d", i/256, i%256)
	}
	path := "/load/" + uuid.NewString()

	var (
		allowed   atomic.Uint64
		limited   atomic.Uint64
		failures  atomic.Uint64
		latencies = make([][]time.Duration, *concurrency)
		wg        sync.WaitGroup
	)

	perWorker := *ops / *concurrency
	start := time.Now()

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			lats := make([]time.Duration, 0, perWorker)

			for i := 0; i < perWorker; i++ {
				ip := ips[rng.Intn(len(ips))]
				opStart := time.Now()
				verdict, err := engine.Evaluate(ctx, path, ip, time.Now())
				lats = append(lats, time.Since(opStart))

				switch {
				case err != nil:
					failures.Add(1)
				case verdict.Allowed:
					allowed.Add(1)
				default:
					limited.Add(1)
				}
			}
			latencies[w] = lats
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	total := allowed.Load() + limited.Load() + failures.Load()

	var all []time.Duration
	for _, lats := range latencies {
		all = append(all, lats...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	fmt.Println("---- results ----")
	fmt.Printf("total=%d allowed=%d limited=%d failures=%d\n",
		total, allowed.Load(), limited.Load(), failures.Load())
	fmt.Printf("elapsed=%s throughput=%.0f ops/s\n",
		elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	if len(all) > 0 {
		fmt.Printf("latency p50=%s p95=%s p99=%s max=%s\n",
			all[len(all)*50/100], all[len(all)*95/100], all[len(all)*99/100], all[len(all)-1])
	}

	snap := engine.MetricsSnapshot()
	fmt.Printf("engine metrics: allowed=%d limited=%d cache_errors=%d\n",
		snap.Counters[reqguard.MetricRequestAllowed],
		snap.Counters[reqguard.MetricRequestLimited],
		snap.Counters[reqguard.MetricCacheError])
}
