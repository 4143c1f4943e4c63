package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyike/FinSight/internal/apperr"
	"github.com/dyike/FinSight/internal/models"
	"gopkg.in/yaml.v3"
)

// RuleSet is the flattened sector→ticker→rule document, in file order.
type RuleSet struct {
	order []string
	rules map[string]models.AlertRule
}

func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.order)
}

func (rs *RuleSet) Tickers() []string {
	if rs == nil {
		return nil
	}
	return append([]string(nil), rs.order...)
}

func (rs *RuleSet) Get(ticker string) (models.AlertRule, bool) {
	if rs == nil {
		return models.AlertRule{}, false
	}
	rule, ok := rs.rules[strings.ToUpper(ticker)]
	return rule, ok
}

// LoadRules reads a JSON or YAML rule document, chosen by extension. A ticker
// listed under more than one sector keeps its first position and its last rule.
func LoadRules(path string) (*RuleSet, error) {
	const op = "alerts.load_rules"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Config(op, err)
	}

	rs := &RuleSet{rules: map[string]models.AlertRule{}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = rs.loadYAML(path, data)
	default:
		err = rs.loadJSON(path, data)
	}
	if err != nil {
		return nil, apperr.Config(op, err)
	}
	return rs, nil
}

func (rs *RuleSet) add(ticker string, rule models.AlertRule) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	rule.Ticker = ticker
	if _, seen := rs.rules[ticker]; !seen {
		rs.order = append(rs.order, ticker)
	}
	rs.rules[ticker] = rule
}

// loadJSON walks the token stream so sectors and tickers keep file order.
func (rs *RuleSet) loadJSON(path string, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))

	if !expectDelim(dec, '{') {
		return fmt.Errorf("%s: top level must map sectors to tickers", path)
	}
	for dec.More() {
		sector, err := objectKey(dec)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if !expectDelim(dec, '{') {
			return fmt.Errorf("%s: sector %q must map tickers to rules", path, sector)
		}
		for dec.More() {
			ticker, err := objectKey(dec)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			var rule models.AlertRule
			if err := dec.Decode(&rule); err != nil {
				return fmt.Errorf("%s: rule for %s: %w", path, strings.ToUpper(ticker), err)
			}
			rs.add(ticker, rule)
		}
		if !expectDelim(dec, '}') {
			return fmt.Errorf("parse %s: unterminated sector %q", path, sector)
		}
	}
	if !expectDelim(dec, '}') {
		return fmt.Errorf("parse %s: unterminated document", path)
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == want
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func (rs *RuleSet) loadYAML(path string, data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: top level must map sectors to tickers", path)
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		sector, tickers := doc.Content[i], doc.Content[i+1]
		if tickers.Kind != yaml.MappingNode {
			return fmt.Errorf("%s: sector %q must map tickers to rules", path, sector.Value)
		}
		for j := 0; j+1 < len(tickers.Content); j += 2 {
			ticker := tickers.Content[j].Value
			var rule models.AlertRule
			if err := tickers.Content[j+1].Decode(&rule); err != nil {
				return fmt.Errorf("%s: rule for %s: %w", path, strings.ToUpper(ticker), err)
			}
			rs.add(ticker, rule)
		}
	}
	return nil
}
