// Command sse_load opens many concurrent subscriptions to the signal SSE
// stream and reports how many signals each wave of clients received.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type loadConfig struct {
	url         string
	connections int
	duration    time.Duration
	rampUp      time.Duration
}

type loadStats struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	signals     atomic.Int64
}

func (s *loadStats) fields() []zap.Field {
	return []zap.Field{
		zap.Int64("connected", s.connected.Load()),
		zap.Int64("connect_errs", s.connectErrs.Load()),
		zap.Int64("stream_errs", s.streamErrs.Load()),
		zap.Int64("signals", s.signals.Load()),
	}
}

func main() {
	var cfg loadConfig
	flag.StringVar(&cfg.url, "url", "http://localhost:8000/signals/stream", "SSE endpoint URL")
	flag.IntVar(&cfg.connections, "conns", 1000, "number of concurrent connections to open")
	flag.DurationVar(&cfg.duration, "dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.DurationVar(&cfg.rampUp, "ramp", 0, "spread connection starts across this window")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if cfg.connections <= 0 {
		logger.Fatal("invalid conns", zap.Int("conns", cfg.connections))
	}
	if cfg.rampUp == 0 && cfg.connections > 100 {
		// 1 second per 500 connections
		cfg.rampUp = max(time.Duration(cfg.connections/500)*time.Second, time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.duration)
		defer cancel()
	}

	logger.Info("starting SSE load",
		zap.String("url", cfg.url), zap.Int("conns", cfg.connections),
		zap.Duration("duration", cfg.duration), zap.Duration("ramp", cfg.rampUp))

	stats := &loadStats{}
	start := time.Now()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("status", append(stats.fields(), zap.Duration("elapsed", time.Since(start).Truncate(time.Second)))...)
			}
		}
	}()

	runLoad(ctx, newClient(cfg.connections), cfg, stats)

	elapsed := max(time.Since(start), time.Millisecond)
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d signals=%d elapsed=%s signals/s=%.2f\n",
		stats.connected.Load(), stats.connectErrs.Load(), stats.streamErrs.Load(), stats.signals.Load(),
		elapsed.Truncate(time.Millisecond), float64(stats.signals.Load())/elapsed.Seconds())
}

func newClient(connections int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     connections + 100,
			MaxIdleConns:        connections + 100,
			MaxIdleConnsPerHost: connections + 100,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}

// runLoad opens cfg.connections streams and blocks until all of them end.
func runLoad(ctx context.Context, client *http.Client, cfg loadConfig, stats *loadStats) {
	var interval time.Duration
	if cfg.rampUp > 0 {
		interval = cfg.rampUp / time.Duration(cfg.connections)
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.connections; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			subscribe(ctx, client, cfg.url, stats)
		}()
	}
	wg.Wait()
}

func subscribe(ctx context.Context, client *http.Client, url string, stats *loadStats) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		stats.connectErrs.Add(1)
		return
	}

	stats.connected.Add(1)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				stats.streamErrs.Add(1)
			}
			return
		}
		if strings.HasPrefix(line, "data: ") {
			stats.signals.Add(1)
		}
	}
}
