package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyike/FinSight/config"
	"github.com/dyike/FinSight/internal/models"
)

// isolate points every file the CLI touches into a temp dir and selects
// providers that need no credentials.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PROJECT_DIR", dir)
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("PORTFOLIO_FILE", filepath.Join(dir, "data", "portfolio.json"))
	t.Setenv("ALERTS_CONFIG_PATH", filepath.Join(dir, "alerts.json"))
	t.Setenv("TECH_ALERTS_CONFIG_PATH", filepath.Join(dir, "tech.json"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "finsight.log"))
	t.Setenv("NEWS_PROVIDER", "google_rss")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("QUOTE_PROVIDER", "yahoo")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	isolate(t)
	root := NewRootCmd()

	want := []string{"serve", "context", "wrap", "watchlist", "alerts", "opportunities", "tech-alerts", "config", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing command %q", name)
		}
	}
	if cmd, _, err := root.Find([]string{"alerts", "watch"}); err != nil || cmd.Name() != "watch" {
		t.Error("missing alerts watch")
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "FinSight v"+Version) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestWatchlistCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "watchlist", "add", "tsla", "--json")
	if err != nil {
		t.Fatalf("watchlist add: %v", err)
	}
	var added models.WatchlistResponse
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if len(added.Tickers) != 1 || added.Tickers[0] != "TSLA" {
		t.Fatalf("tickers after add = %v", added.Tickers)
	}

	out, err = execute(t, "watchlist", "--json")
	if err != nil {
		t.Fatalf("watchlist: %v", err)
	}
	if strings.TrimSpace(out) != "{\n  \"tickers\": [\n    \"TSLA\"\n  ]\n}" {
		t.Errorf("unexpected list output %q", out)
	}

	if _, err := execute(t, "watchlist", "remove", "TSLA"); err != nil {
		t.Fatalf("watchlist remove: %v", err)
	}
	out, err = execute(t, "watchlist", "list")
	if err != nil {
		t.Fatalf("watchlist list: %v", err)
	}
	if !strings.Contains(out, "Watchlist is empty") {
		t.Errorf("expected empty watchlist, got %q", out)
	}

	if _, err := execute(t, "watchlist", "add", "   "); err == nil {
		t.Error("blank ticker should fail")
	}
}

func TestAlertsWithoutRules(t *testing.T) {
	isolate(t)
	out, err := execute(t, "alerts", "--json")
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	var resp models.AlertsResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if len(resp.Alerts) != 1 || !strings.Contains(resp.Alerts[0], "Could not load alerts configuration") {
		t.Errorf("unexpected alerts %q", resp.Alerts)
	}
}

func TestConfigValidateWarnsOnMissingRules(t *testing.T) {
	isolate(t)
	out, err := execute(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "missing") || !strings.Contains(out, "warnings") {
		t.Errorf("expected warnings, got %q", out)
	}
}

func TestMCPServerExposesEveryTool(t *testing.T) {
	isolate(t)
	a := &app{cfg: config.DefaultConfig()}
	ctx := context.Background()
	svc, err := a.service(ctx)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	server, err := newMCPServer(ctx, svc)
	if err != nil {
		t.Fatalf("newMCPServer: %v", err)
	}

	var list struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	data, err := json.Marshal(server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)))
	if err != nil {
		t.Fatalf("marshal tools/list: %v", err)
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("decode tools/list: %v", err)
	}
	if len(list.Result.Tools) != 10 {
		t.Fatalf("expected 10 tools, got %d", len(list.Result.Tools))
	}
	names := map[string]bool{}
	for _, tool := range list.Result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"financial_context", "market_summary", "tech_alerts"} {
		if !names[want] {
			t.Errorf("tool %s not exposed: %v", want, names)
		}
	}

	var read struct {
		Error  any `json:"error"`
		Result struct {
			Contents []struct {
				URI string `json:"uri"`
			} `json:"contents"`
		} `json:"result"`
	}
	data, err = json.Marshal(server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"portfolio://data"}}`)))
	if err != nil {
		t.Fatalf("marshal resources/read: %v", err)
	}
	if err := json.Unmarshal(data, &read); err != nil {
		t.Fatalf("decode resources/read: %v", err)
	}
	if read.Error != nil || len(read.Result.Contents) != 1 {
		t.Fatalf("resources/read failed: %s", data)
	}
}

func TestRenderers(t *testing.T) {
	var buf bytes.Buffer
	renderAlerts(&buf, &models.AlertsResponse{Alerts: []string{}})
	if !strings.Contains(buf.String(), "No alerts") {
		t.Errorf("empty alerts rendered as %q", buf.String())
	}

	buf.Reset()
	renderWrap(&buf, &models.MarketWrap{
		Timestamp: "2024-01-02T15:04:05.000000Z",
		Indices: models.Indices{
			{Name: "S&P 500", Price: "$4,700.00", Change: "+10.00", Percent: "+0.21%"},
			{Name: "VIX", Error: "no data"},
		},
		TopGainers:    []models.Mover{{Ticker: "NVDA", Price: "$500.00", Change: "+3.00%"}},
		NewsHeadlines: []models.Headline{{Title: "Stocks rally", Link: "https://example.com"}},
		Summary:       "Market summary generated at 2024-01-02T15:04:05.000000Z",
	})
	for _, want := range []string{"S&P 500", "$4,700.00", "no data", "NVDA", "Stocks rally", "none"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("wrap output missing %q", want)
		}
	}
}
