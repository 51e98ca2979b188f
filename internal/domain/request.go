package domain

import "encoding/json"

// FeatureNames lists model features in the order the fitted artifacts expect.
// The names match the column headers of the training data.
var FeatureNames = []string{"Temperature", "RH", "Ws", "Rain", "FFMC", "DMC", "ISI", "Classes", "Region"}

// NumFeatures is the length of a feature vector.
const NumFeatures = 9

// PredictionRequest holds the weather observations and context for one prediction.
type PredictionRequest struct {
	Temperature      float64 `json:"temperature"`
	RelativeHumidity float64 `json:"relative_humidity"`
	WindSpeed        float64 `json:"wind_speed"`
	Rain             float64 `json:"rain"`
	FFMC             float64 `json:"ffmc"`
	DMC              float64 `json:"dmc"`
	ISI              float64 `json:"isi"`
	FireClass        float64 `json:"fire_class"`
	Region           float64 `json:"region"`

	// missing names the first field absent from the decoded JSON.
	missing requiredField
}

// Features arranges the request into the model's feature vector.
func (r PredictionRequest) Features() []float64 {
	return []float64{
		r.Temperature,
		r.RelativeHumidity,
		r.WindSpeed,
		r.Rain,
		r.FFMC,
		r.DMC,
		r.ISI,
		r.FireClass,
		r.Region,
	}
}

// DefaultRequest returns a request with every numeric input at the midpoint of
// its accepted range and both categorical inputs set to 0.
func DefaultRequest() PredictionRequest {
	r := PredictionRequest{}
	for _, b := range numericBounds {
		*b.field(&r) = (b.min + b.max) / 2
	}
	return r
}

type requiredField struct {
	name  string
	label string
}

// UnmarshalJSON decodes a request and records the first of the nine fields
// that is absent or null, so Validate can reject it by name. JSON numbers of
// any form are accepted for the categorical fields.
func (r *PredictionRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Temperature      *float64 `json:"temperature"`
		RelativeHumidity *float64 `json:"relative_humidity"`
		WindSpeed        *float64 `json:"wind_speed"`
		Rain             *float64 `json:"rain"`
		FFMC             *float64 `json:"ffmc"`
		DMC              *float64 `json:"dmc"`
		ISI              *float64 `json:"isi"`
		FireClass        *float64 `json:"fire_class"`
		Region           *float64 `json:"region"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var out PredictionRequest
	fields := []struct {
		requiredField
		src *float64
		dst *float64
	}{
		{requiredField{"Temperature", "Temperature"}, wire.Temperature, &out.Temperature},
		{requiredField{"RelativeHumidity", "Relative Humidity"}, wire.RelativeHumidity, &out.RelativeHumidity},
		{requiredField{"WindSpeed", "Wind Speed"}, wire.WindSpeed, &out.WindSpeed},
		{requiredField{"Rain", "Rain"}, wire.Rain, &out.Rain},
		{requiredField{"FFMC", "FFMC"}, wire.FFMC, &out.FFMC},
		{requiredField{"DMC", "DMC"}, wire.DMC, &out.DMC},
		{requiredField{"ISI", "ISI"}, wire.ISI, &out.ISI},
		{requiredField{"FireClass", "Class"}, wire.FireClass, &out.FireClass},
		{requiredField{"Region", "Region"}, wire.Region, &out.Region},
	}
	for _, f := range fields {
		if f.src == nil {
			if out.missing.name == "" {
				out.missing = f.requiredField
			}
			continue
		}
		*f.dst = *f.src
	}

	*r = out
	return nil
}
