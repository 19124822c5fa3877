// Package domain holds the value types shared by every stage of the ticket
// analytics pipeline: raw and derived transactions, the seating, timing and
// buyer classifications, and NullFloat for statistics that may be undefined.
package domain
