// Package estimator defines the predict contract with the external market
// price model and the versioned feature matrix it accepts.
package estimator

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/turia-capital/scout-cli/internal/model"
)

// FeatureSetVersion identifies the feature-name set the model was trained
// against. Bumping the set means bumping the version.
const FeatureSetVersion = "v3"

// FeatureNames is the fixed, ordered feature set sent to the estimator.
// The model must stay blind to the listing's asking price and to every
// financial field (costs, rents, yields): those feed the scorer's margin
// computation, and letting the model see them would let it learn its own
// target.
var FeatureNames = []string{
	"size", "rooms", "bathrooms", "floor", "has_lift", "exterior",
	"district", "neighborhood", "latitude", "longitude",
	"bath_ratio", "light_score", "geo_cluster",
	"dist_center", "dist_beach", "dist_turia", "dist_arts_sciences",
	"dist_upv", "dist_metro_xativa", "dist_metro",
	"is_house", "needs_reform", "is_ground_floor",
	"has_parking", "is_penthouse", "has_terrace", "has_balcony",
	"is_last_floor", "is_south_facing",
}

// Matrix is one whole-batch feature matrix. Rows follow the input listing
// order; the estimator returns one non-negative estimate per row in the
// same order.
type Matrix struct {
	Version string   `json:"model_version"`
	Names   []string `json:"feature_names"`
	Rows    [][]any  `json:"rows"`
}

// BuildMatrix assembles the feature matrix for a batch. It is the single
// place features are gathered for the model, so the blindness contract
// cannot be bypassed per call site. A listing carrying a non-finite derived
// feature aborts the batch: silent defaulting here would corrupt the
// estimates downstream.
func BuildMatrix(batch []model.EnrichedListing) (*Matrix, error) {
	if len(batch) == 0 {
		return nil, eris.New("estimator: empty batch")
	}

	rows := make([][]any, 0, len(batch))
	for i := range batch {
		e := &batch[i]
		if !e.FiniteFeatures() {
			return nil, eris.Errorf("estimator: listing %s has non-finite features", e.PropertyCode)
		}
		rows = append(rows, []any{
			e.Size, e.Rooms, e.Bathrooms, e.FloorNum,
			e.HasLiftValue(), e.ExteriorValue(),
			e.District, e.Neighborhood, e.Latitude, e.Longitude,
			e.BathRatio, e.LightScore, strconv.Itoa(e.GeoCluster),
			e.DistCenter, e.DistBeach, e.DistTuria, e.DistArtsSciences,
			e.DistUPV, e.DistMetroXativa, e.DistMetro,
			e.IsHouse(), e.NeedsReform(), e.FloorNum <= 0,
			e.HasParking(), e.IsPenthouse(), e.Flags.Terrace, e.Flags.Balcony,
			e.IsLastFloorUnit(), e.Flags.SouthFacing,
		})
	}

	return &Matrix{
		Version: FeatureSetVersion,
		Names:   FeatureNames,
		Rows:    rows,
	}, nil
}
