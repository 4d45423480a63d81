// Package ingest loads raw listing batches, deduplicates them, and applies
// the parse-time cleaning filters that precede feature engineering.
package ingest

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/model"
)

// Counts reports volume through the ingestion filters.
type Counts struct {
	Files      int `json:"files"`
	Records    int `json:"records"`
	Duplicates int `json:"duplicates"`
	Dropped    int `json:"dropped"`
	Kept       int `json:"kept"`
}

// batchFile is the wire form of one raw batch: a search-API response page.
type batchFile struct {
	ElementList []wireListing `json:"elementList"`
}

// wireListing tolerates the type drift seen in raw feeds: numeric fields may
// arrive as strings and the property code as a number. Malformed numerics
// coerce to NaN, the missing-value sentinel the cleaning filter drops on.
type wireListing struct {
	PropertyCode any                 `json:"propertyCode"`
	Price        any                 `json:"price"`
	Size         any                 `json:"size"`
	Rooms        any                 `json:"rooms"`
	Bathrooms    any                 `json:"bathrooms"`
	Floor        string              `json:"floor"`
	HasLift      *bool               `json:"hasLift"`
	Exterior     *bool               `json:"exterior"`
	Description  string              `json:"description"`
	Latitude     any                 `json:"latitude"`
	Longitude    any                 `json:"longitude"`
	Neighborhood string              `json:"neighborhood"`
	District     string              `json:"district"`
	Parking      *model.ParkingSpace `json:"parkingSpace"`
	PropertyType string              `json:"propertyType"`
	Status       string              `json:"status"`
	Photos       []string            `json:"photos"`
}

func (w *wireListing) toRaw() model.RawListing {
	return model.RawListing{
		PropertyCode: coerceCode(w.PropertyCode),
		Price:        coerceFloat(w.Price),
		Size:         coerceFloat(w.Size),
		Rooms:        int(coerceFloatOr(w.Rooms, 0)),
		Bathrooms:    int(coerceFloatOr(w.Bathrooms, 0)),
		Floor:        w.Floor,
		HasLift:      w.HasLift,
		Exterior:     w.Exterior,
		Description:  w.Description,
		Latitude:     coerceFloat(w.Latitude),
		Longitude:    coerceFloat(w.Longitude),
		Neighborhood: w.Neighborhood,
		District:     w.District,
		Parking:      w.Parking,
		PropertyType: w.PropertyType,
		Status:       w.Status,
		Photos:       w.Photos,
	}
}

// coerceFloat converts a wire value to float64, returning NaN when the value
// is absent or unparseable.
func coerceFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceFloatOr(v any, def float64) float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return def
	}
	return f
}

func coerceCode(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatInt(int64(x), 10)
	default:
		return ""
	}
}

// LoadDir reads every *.json batch file under dir (in name order, so later
// batches win on duplicate codes) and returns the deduplicated records.
func LoadDir(dir string) ([]model.RawListing, Counts, error) {
	var counts Counts

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, counts, eris.Wrapf(err, "ingest: glob %s", dir)
	}
	if len(paths) == 0 {
		return nil, counts, eris.Errorf("ingest: no batch files in %s", dir)
	}
	sort.Strings(paths)

	var listings []model.RawListing
	index := make(map[string]int)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, counts, eris.Wrapf(err, "ingest: read %s", path)
		}

		var batch batchFile
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, counts, eris.Wrapf(err, "ingest: parse %s", path)
		}

		counts.Files++
		for i := range batch.ElementList {
			raw := batch.ElementList[i].toRaw()
			counts.Records++

			if raw.PropertyCode == "" {
				counts.Dropped++
				continue
			}
			// Last-seen wins: a re-scraped listing replaces the earlier
			// record in place, keeping one surviving record per code.
			if pos, seen := index[raw.PropertyCode]; seen {
				listings[pos] = raw
				counts.Duplicates++
				continue
			}
			index[raw.PropertyCode] = len(listings)
			listings = append(listings, raw)
		}
	}

	zap.L().Info("ingest: batches loaded",
		zap.Int("files", counts.Files),
		zap.Int("records", counts.Records),
		zap.Int("duplicates", counts.Duplicates),
		zap.Int("unique", len(listings)),
	)
	return listings, counts, nil
}

// Clean drops records whose price, size, or coordinates are missing after
// coercion and applies the plausibility floors that keep garages and storage
// rooms out of the dataset. Dropped rows are only counted, not reported
// individually. The returned counts describe the whole ingestion funnel.
func Clean(listings []model.RawListing, cfg config.IngestConfig, counts Counts) ([]model.RawListing, Counts) {
	kept := make([]model.RawListing, 0, len(listings))
	for i := range listings {
		l := listings[i]
		if !l.Valid() || l.Price <= cfg.MinPrice || l.Size <= cfg.MinSize {
			counts.Dropped++
			continue
		}
		kept = append(kept, l)
	}
	counts.Kept = len(kept)

	zap.L().Info("ingest: cleaning complete",
		zap.Int("in", len(listings)),
		zap.Int("dropped", counts.Dropped),
		zap.Int("kept", counts.Kept),
	)
	return kept, counts
}
