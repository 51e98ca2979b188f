// Package domain models Fire Weather Index (FWI) prediction requests and the
// risk assessment derived from a predicted score.
//
// # Inputs
//
// A prediction takes nine values, taken from the Algerian Forest Fires dataset
// (Bejaia and Sidi-Bel Abbes regions, June to September 2012):
//
//	Temperature       noon temperature in °C            22 – 42
//	RelativeHumidity  relative humidity in %            21 – 90
//	WindSpeed         wind speed in km/h                6 – 29
//	Rain              daily rainfall in mm              0 – 16.8
//	FFMC              Fine Fuel Moisture Code           28.6 – 92.5
//	DMC               Duff Moisture Code                1.1 – 65.9
//	ISI               Initial Spread Index              0 – 18.5
//	FireClass         0 = not fire, 1 = fire
//	Region            0 = Bejaia, 1 = Sidi-Bel Abbes
//
// Bounds are inclusive and mirror the observed range of the training data.
// [Validate] checks them in the order above and reports only the first
// violation.
//
// # Feature order
//
// The fitted scaler and regression model expect the features in the order
// returned by [PredictionRequest.Features]. Artifacts that declare a different
// order are rejected at load time.
//
// # Risk tiers
//
// The predicted FWI is mapped onto three bands by [Classify]:
//
//	FWI <= 10        Low
//	10 < FWI <= 20   Moderate
//	FWI > 20         High
//
// The score is never clamped. Negative or very large predictions are reported
// as-is and still land in a tier.
package domain
