// Package forecast implements the registration count forecasting core.
//
// Two estimators run over the same immutable Sample: an ordinary least
// squares trend (Linear) and the exact interpolating polynomial in Newton
// form (Newton). Blend averages them per target year, falling back to the
// linear trend alone when the sample is too small for interpolation, and
// Filter trims the result to the requested horizon. Engine ties the stages
// together for a single request.
//
// All counts are rounded half away from zero.
package forecast
