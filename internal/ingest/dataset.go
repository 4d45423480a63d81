package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/turia-capital/scout-cli/internal/model"
)

// datasetHeader defines the column order of the cleaned-dataset artifact.
var datasetHeader = []string{
	"propertyCode", "price", "size", "rooms", "bathrooms", "floor",
	"hasLift", "exterior", "description", "latitude", "longitude",
	"neighborhood", "district", "hasParking", "propertyType", "status",
}

// WriteDataset persists the cleaned listings as the flat CSV artifact handed
// to the scan stage, creating parent directories as needed.
func WriteDataset(path string, listings []model.RawListing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "ingest: create dataset dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "ingest: create dataset %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(datasetHeader); err != nil {
		return eris.Wrap(err, "ingest: write dataset header")
	}
	for i := range listings {
		l := &listings[i]
		row := []string{
			l.PropertyCode,
			formatFloat(l.Price),
			formatFloat(l.Size),
			strconv.Itoa(l.Rooms),
			strconv.Itoa(l.Bathrooms),
			l.Floor,
			formatBoolPtr(l.HasLift),
			formatBoolPtr(l.Exterior),
			l.Description,
			formatFloat(l.Latitude),
			formatFloat(l.Longitude),
			l.Neighborhood,
			l.District,
			strconv.FormatBool(l.HasParking()),
			l.PropertyType,
			l.Status,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "ingest: write dataset row %s", l.PropertyCode)
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "ingest: flush dataset")
}

// ReadDataset loads a cleaned-dataset artifact back into listing records.
func ReadDataset(path string) ([]model.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open dataset %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read dataset %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("ingest: dataset %s is empty", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range datasetHeader {
		if _, ok := col[name]; !ok {
			return nil, eris.Errorf("ingest: dataset %s missing column %q", path, name)
		}
	}

	listings := make([]model.RawListing, 0, len(rows)-1)
	for _, row := range rows[1:] {
		l := model.RawListing{
			PropertyCode: row[col["propertyCode"]],
			Price:        coerceFloat(row[col["price"]]),
			Size:         coerceFloat(row[col["size"]]),
			Rooms:        int(coerceFloatOr(row[col["rooms"]], 0)),
			Bathrooms:    int(coerceFloatOr(row[col["bathrooms"]], 0)),
			Floor:        row[col["floor"]],
			HasLift:      parseBoolPtr(row[col["hasLift"]]),
			Exterior:     parseBoolPtr(row[col["exterior"]]),
			Description:  row[col["description"]],
			Latitude:     coerceFloat(row[col["latitude"]]),
			Longitude:    coerceFloat(row[col["longitude"]]),
			Neighborhood: row[col["neighborhood"]],
			District:     row[col["district"]],
			PropertyType: row[col["propertyType"]],
			Status:       row[col["status"]],
		}
		if row[col["hasParking"]] == "true" {
			l.Parking = &model.ParkingSpace{HasParkingSpace: true}
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBoolPtr(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func parseBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	v := s == "true"
	return &v
}
