package alerts

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchRulesDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts_config.json")
	other := filepath.Join(dir, "unrelated.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchRules(ctx, []string{path}, 50*time.Millisecond, func(p string) { changed <- p })
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"tech":{}}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != filepath.Clean(path) {
			t.Fatalf("unexpected path %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case got := <-changed:
		t.Fatalf("expected a single debounced notification, got another for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WatchRules: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchRulesSerializesCallbacks(t *testing.T) {
	dir := t.TempDir()
	alertsPath := filepath.Join(dir, "alerts_config.json")
	techPath := filepath.Join(dir, "tech_alerts_config.json")
	for _, p := range []string{alertsPath, techPath} {
		if err := os.WriteFile(p, []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		inFlight, maxInFlight int32
		mu                    sync.Mutex
		seen                  []string
	)
	changed := make(chan struct{}, 8)
	onChange := func(p string) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			cur := atomic.LoadInt32(&maxInFlight)
			if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
		atomic.AddInt32(&inFlight, -1)
		changed <- struct{}{}
	}
	go WatchRules(ctx, []string{alertsPath, techPath}, 20*time.Millisecond, onChange)

	time.Sleep(100 * time.Millisecond)
	for _, p := range []string{alertsPath, techPath} {
		if err := os.WriteFile(p, []byte(`{"tech":{}}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case <-changed:
		case <-time.After(3 * time.Second):
			t.Fatalf("got %d of 2 change notifications", i)
		}
	}

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Fatalf("onChange ran %d times concurrently", got)
	}
	mu.Lock()
	defer mu.Unlock()
	sort.Strings(seen)
	want := []string{filepath.Clean(alertsPath), filepath.Clean(techPath)}
	sort.Strings(want)
	if len(seen) != 2 || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("unexpected paths %v", seen)
	}
}
