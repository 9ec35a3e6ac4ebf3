package model

// Names of the five standard classifications created with every season.
// The placement fan-out and the score recalculation look these up by name.
const (
	ClassificationGeneral = "Klasyfikacja generalna"
	ClassificationRoad    = "Szosa"
	ClassificationFixie   = "Ostre koło"
	ClassificationMen     = "Mężczyźni"
	ClassificationWomen   = "Kobiety"
)

// StandardClassificationNames in their canonical order.
func StandardClassificationNames() []string {
	return []string{
		ClassificationGeneral,
		ClassificationRoad,
		ClassificationFixie,
		ClassificationMen,
		ClassificationWomen,
	}
}

type Classification struct {
	ID          int    `json:"id"`
	SeasonID    int    `json:"seasonId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ClassificationPlacement is the place of one race participation within one
// classification. Rows are created once per race when places are confirmed
// and never mutated afterwards.
type ClassificationPlacement struct {
	ParticipationID  int `json:"raceParticipationId"`
	ClassificationID int `json:"classificationId"`
	Place            int `json:"place"`
}

// RiderClassificationScore is the cumulative season score of a rider in a
// classification. It is a derived cache: the recalculator deletes and
// reinserts all rows for a season in one run.
type RiderClassificationScore struct {
	RiderID          int `json:"riderId"`
	ClassificationID int `json:"classificationId"`
	Score            int `json:"score"`
}
