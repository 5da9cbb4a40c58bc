// Package domain models the environmental health risk questionnaire and the
// scoring primitives built on top of it.
//
// # Feature Vector
//
// Every known pin code maps to a base vector of twelve environmental
// indicators on a 0-100 scale. Slot positions are fixed and shared with the
// training pipeline that produced the model and scaler artifacts:
//
//	0  air quality          6  light pollution
//	1  humidity             7  traffic density
//	2  noise pollution      8  industrial activity
//	3  green spaces         9  socioeconomic factors
//	4  temperature         10  waste management
//	5  housing quality     11  radiation
//
// Slots 1 (humidity) and 4 (temperature) are the only two that may be
// replaced with live weather observations; see [ApplyObservation]. The
// replacement is all-or-nothing: a vector never mixes a live temperature with
// a static humidity or vice versa, because the two readings come from the
// same observation in inconsistent physical units otherwise.
//
// # Temperature Units
//
// The weather service reports temperature on an absolute (Kelvin) scale. The
// conversion to Celsius (subtracting [KelvinOffset]) happens exactly once, in
// [Observation.TemperatureCelsius]. Both the value written into the feature
// vector and the value recorded in the audit log come from that method, so
// the two can never diverge.
//
// # Audit Schema
//
// [BuildRecord] produces the flat ordered field list appended to the audit
// destination. The destination infers its schema from the first row ever
// written, so the field set and ordering must be identical for every record
// appended to a given destination. Weather columns are present whenever the
// overlay is configured, not whenever a particular fetch succeeded; a
// degraded static-only score writes empty weather cells instead of changing
// the schema.
package domain
