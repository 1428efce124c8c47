// Command cache_probe checks that theater detail and availability reads are
// served from Redis after the first request. It talks to a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/constants"
	"theaterbook/internal/timewindow"
	"theaterbook/pkg/cache"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
)

type probeResult struct {
	Name      string
	Status    int
	First     time.Duration
	Second    time.Duration
	KeyCached bool
	Err       error
}

type prober struct {
	baseURL string
	http    *http.Client
	cache   cache.Service
}

func main() {
	cfg := config.Load()
	baseURL := flag.String("base", fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath()), "API base URL")
	limit := flag.Int("theaters", 3, "number of theaters to probe")
	flag.Parse()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	ctx := context.Background()
	store := cache.NewService(rdb)
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	fmt.Println("✅ Redis connection: OK")

	p := &prober{baseURL: *baseURL, http: &http.Client{Timeout: 30 * time.Second}, cache: store}
	window := timewindow.New(cfg.Booking.Timezone, cfg.Booking.MinRemaining)
	today := window.DayKey(time.Now())
	tomorrow := window.DayKey(time.Now().AddDate(0, 0, 1))

	body, _, err := p.get("/theaters?date=" + today)
	if err != nil {
		log.Fatalf("❌ listing theaters failed: %v", err)
	}
	ids := gjson.GetBytes(body, "data.#.id").Array()
	if len(ids) == 0 {
		log.Fatalf("❌ no theaters returned, seed the database first")
	}
	if len(ids) > *limit {
		ids = ids[:*limit]
	}

	var results []probeResult
	for _, id := range ids {
		tid := id.String()
		results = append(results,
			p.probe(ctx, "detail "+tid, "/theaters/"+tid, constants.BuildTheaterDetailKey(tid)),
			p.probe(ctx, "slots "+tid+" "+today, "/theaters/"+tid+"/available-slots?date="+today, constants.BuildAvailabilityKey(tid, today)),
			p.probe(ctx, "slots "+tid+" "+tomorrow, "/theaters/"+tid+"/available-slots?date="+tomorrow, constants.BuildAvailabilityKey(tid, tomorrow)),
		)
	}

	report(results)
}

func (p *prober) get(path string) ([]byte, int, error) {
	resp, err := p.http.Get(p.baseURL + path)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return body, resp.StatusCode, err
}

// probe requests path twice and then checks the cache key directly, which is
// more reliable than inferring hits from latency.
func (p *prober) probe(ctx context.Context, name, path, key string) probeResult {
	r := probeResult{Name: name}

	start := time.Now()
	_, status, err := p.get(path)
	r.First = time.Since(start)
	if err != nil {
		r.Err = err
		return r
	}

	start = time.Now()
	body, status2, err := p.get(path)
	r.Second = time.Since(start)
	r.Status = status2
	if err != nil {
		r.Err = err
		return r
	}
	if status >= 400 || status2 >= 400 {
		r.Err = fmt.Errorf("HTTP %d: %s", status2, gjson.GetBytes(body, "message").String())
		return r
	}

	r.KeyCached = p.cache.Exists(ctx, key)
	return r
}

func report(results []probeResult) {
	fmt.Println("\n📊 CACHE PROBE REPORT")
	fmt.Println("=====================")

	cached := 0
	for _, r := range results {
		icon := "🔥"
		switch {
		case r.Err != nil:
			icon = "❌"
		case !r.KeyCached:
			icon = "💾"
		default:
			cached++
		}
		fmt.Printf("%s %-60s first=%v second=%v", icon, r.Name, r.First, r.Second)
		if r.Err != nil {
			fmt.Printf(" error=%v", r.Err)
		}
		fmt.Println()
	}
	fmt.Printf("\nCached: %d/%d\n", cached, len(results))
}
