// Package domain models the field-risk data served by the backend.
//
// # Data Source
//
// Fields and alerts come from the field-risk backend's JSON API. A field is
// a user-registered site with WGS-84 coordinates; the backend periodically
// evaluates each field against recent precipitation, soil moisture, and
// vegetation-index data and attaches the outcome as the field's last_risk
// descriptor. Sufficiently severe outcomes also append an alert to the
// backend's alert log, which is served most-recent-first.
//
// # Severity Classification
//
// Display severity is a three-tier simplification of the 0-100 severity
// score carried by every risk descriptor:
//
//	severity <  40  none     (green)
//	severity <  75  moderate (yellow)
//	severity >= 75  severe   (red)
//
// An absent descriptor or the "normal" sentinel type is always tier none;
// the numeric score is only meaningful for hazard types. See [Classify].
//
// The alert list's badge coloring is a separate, narrower rule (red at
// severity >= 75, yellow otherwise) owned by the list renderer. The two
// rules diverge upstream and are deliberately kept independent.
package domain
