// Package calendar holds the calendar data shapes served by the almanac
// data layer, the dispatch from a runtime calendar kind to its statically
// typed data markers, and era resolution over era tables.
package calendar
