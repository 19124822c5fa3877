// Package finance projects the revenue impact of three pricing initiatives
// from buyer-segment totals:
//
//  1. Discount floor: last-minute seats are floored at a share of the
//     planner ATP, keeping only part of the volume.
//  2. Tier conversion: a share of In-Between seats move to Planner ATP and
//     a share of Last-Minute seats move to In-Between ATP.
//  3. In-game upsell: seat upgrades sold to a share of average attendance
//     every game of the season.
//
// All assumptions live in Params. Seat counts are floored and money is
// rounded to cents. An initiative whose segments have no sales is reported
// with Valid=false rather than a zero or NaN figure.
package finance
