package cards

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SplitListCell breaks a slash-separated cell (ASCII "/" or fullwidth "／")
// into trimmed tokens, dropping empties and the "-" placeholder.
func SplitListCell(s string) []string {
	s = strings.ReplaceAll(s, "／", "/")
	parts := strings.Split(s, "/")
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != Placeholder {
			out = append(out, t)
		}
	}
	return out
}

// extractSeriesID pulls the first 【…】 token out of the acquisition-info
// cell. A non-empty cell without brackets maps to SeriesOther, an empty or
// placeholder cell to SeriesNone.
func extractSeriesID(info string) string {
	a := strings.Index(info, "【")
	b := strings.Index(info, "】")
	if a >= 0 && b > a {
		return strings.TrimSpace(info[a+len("【") : b])
	}
	if t := strings.TrimSpace(info); t == "" || t == Placeholder {
		return SeriesNone
	}
	return SeriesOther
}

// Loader reads catalog CSVs and caches the normalized result per directory.
// The catalog is effectively static reference data, so a coarse TTL is the
// only invalidation.
type Loader struct {
	ttl time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	cards    []Card
	loadedAt time.Time
}

// DefaultTTL matches the original hourly catalog refresh.
const DefaultTTL = time.Hour

func NewLoader(ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{ttl: ttl, cache: map[string]cacheEntry{}}
}

// Load returns the normalized cards under dataDir, reading from cache when
// the previous load is still fresh.
func (l *Loader) Load(dataDir string) ([]Card, error) {
	l.mu.Lock()
	if e, ok := l.cache[dataDir]; ok && time.Since(e.loadedAt) < l.ttl {
		l.mu.Unlock()
		return e.cards, nil
	}
	l.mu.Unlock()

	cs, err := LoadDir(dataDir)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[dataDir] = cacheEntry{cards: cs, loadedAt: time.Now()}
	l.mu.Unlock()
	return cs, nil
}

// LoadDir loads CSV files from a data directory. It expects at least
// cardlist_filtered.csv; custom_cards.csv is optional.
func LoadDir(dataDir string) ([]Card, error) {
	files := []string{
		filepath.Join(dataDir, "cardlist_filtered.csv"),
		filepath.Join(dataDir, "custom_cards.csv"),
	}

	var all []Card
	var found bool
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			// skip missing files
			continue
		}
		found = true
		cs, err := loadSingleCSV(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		all = append(all, cs...)
	}
	if !found {
		return nil, fmt.Errorf("no input CSVs found in %s", dataDir)
	}
	return all, nil
}

func loadSingleCSV(path string) ([]Card, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return row[idx]
		}
		return ""
	}

	out := make([]Card, 0, len(rows)-1)
	for _, row := range rows[1:] {
		c := Card{
			CardID:    get(row, "カードID"),
			Name:      get(row, "カード名"),
			Color:     get(row, "色"),
			Type:      get(row, "タイプ"),
			Counter:   get(row, "カウンター"),
			Text:      get(row, "テキスト"),
			Trigger:   get(row, "トリガー"),
			BlockIcon: get(row, "ブロックアイコン"),
		}
		costStr := strings.TrimSpace(get(row, "コスト"))
		if costStr != "" && costStr != Placeholder {
			v, err := strconv.Atoi(costStr)
			if err == nil {
				c.Cost = v
			}
		}
		c.Attributes = SplitListCell(get(row, "属性"))
		c.Features = SplitListCell(get(row, "特徴"))
		c.SeriesID = extractSeriesID(get(row, "入手情報"))
		c.Key = NewSortKey(c.Color, c.Type)
		out = append(out, c)
	}
	return out, nil
}
