package domain

// ValidationError reports the first input that fell outside its accepted range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type numericBound struct {
	name     string
	min, max float64
	message  string
	field    func(*PredictionRequest) *float64
}

// numericBounds is ordered; Validate reports the first failing entry.
var numericBounds = []numericBound{
	{
		name: "Temperature", min: 22, max: 42,
		message: "Temperature must be between 22°C and 42°C.",
		field:   func(r *PredictionRequest) *float64 { return &r.Temperature },
	},
	{
		name: "RelativeHumidity", min: 21, max: 90,
		message: "Relative Humidity must be between 21% and 90%.",
		field:   func(r *PredictionRequest) *float64 { return &r.RelativeHumidity },
	},
	{
		name: "WindSpeed", min: 6, max: 29,
		message: "Wind Speed must be between 6 and 29 km/h.",
		field:   func(r *PredictionRequest) *float64 { return &r.WindSpeed },
	},
	{
		name: "Rain", min: 0, max: 16.8,
		message: "Rain must be between 0 and 16.8 mm.",
		field:   func(r *PredictionRequest) *float64 { return &r.Rain },
	},
	{
		name: "FFMC", min: 28.6, max: 92.5,
		message: "FFMC must be between 28.6 and 92.5.",
		field:   func(r *PredictionRequest) *float64 { return &r.FFMC },
	},
	{
		name: "DMC", min: 1.1, max: 65.9,
		message: "DMC must be between 1.1 and 65.9.",
		field:   func(r *PredictionRequest) *float64 { return &r.DMC },
	},
	{
		name: "ISI", min: 0, max: 18.5,
		message: "ISI must be between 0 and 18.5.",
		field:   func(r *PredictionRequest) *float64 { return &r.ISI },
	},
}

// Validate checks each input against its accepted range and returns the first
// violation, or nil when the request is acceptable. A field missing from the
// decoded JSON is reported before any range check. NaN and infinite values
// fail their range check.
func Validate(r PredictionRequest) *ValidationError {
	if r.missing.name != "" {
		return &ValidationError{Field: r.missing.name, Message: r.missing.label + " is required."}
	}
	for _, b := range numericBounds {
		v := *b.field(&r)
		// Negated so that NaN, which fails every comparison, is rejected.
		if !(v >= b.min && v <= b.max) {
			return &ValidationError{Field: b.name, Message: b.message}
		}
	}
	if r.FireClass != 0 && r.FireClass != 1 {
		return &ValidationError{Field: "FireClass", Message: "Class must be 0 (No Fire) or 1 (Fire)."}
	}
	if r.Region != 0 && r.Region != 1 {
		return &ValidationError{Field: "Region", Message: "Region must be 0 (Bejaia) or 1 (Sidi-Bel Abbes)."}
	}
	return nil
}
