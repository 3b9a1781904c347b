// Package stats aggregates dental record fields into the label/count series
// drawn by the dashboard charts.  Everything here is pure and stateless.
package stats

import "github.com/odontolegal/forensic-api/internal/model"

// Entry is the dental-record shape the charts read.  A record may carry
// several feature tags; each counts once.
type Entry struct {
	RecordType    string
	DentitionType string
	Features      []string
	Region        string
}

// Field selects which attribute of an Entry is counted.
type Field int

const (
	ByRecordType Field = iota
	ByDentition
	ByFeature
	ByRegion
)

func (f Field) values(e Entry) []string {
	switch f {
	case ByRecordType:
		return []string{e.RecordType}
	case ByDentition:
		return []string{e.DentitionType}
	case ByFeature:
		return e.Features
	case ByRegion:
		return []string{e.Region}
	}
	return nil
}

// Counts maps each observed value to its number of occurrences, keeping
// labels in the order they were first seen.
type Counts struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Get returns the count recorded for label.
func (c Counts) Get(label string) int {
	for i, l := range c.Labels {
		if l == label {
			return c.Data[i]
		}
	}
	return 0
}

// Count performs one pass over entries.  Empty values are skipped.
func Count(entries []Entry, field Field) Counts {
	out := Counts{Labels: []string{}, Data: []int{}}
	index := map[string]int{}
	for _, e := range entries {
		for _, v := range field.values(e) {
			if v == "" {
				continue
			}
			i, ok := index[v]
			if !ok {
				i = len(out.Labels)
				index[v] = i
				out.Labels = append(out.Labels, v)
				out.Data = append(out.Data, 0)
			}
			out.Data[i]++
		}
	}
	return out
}

// FromRecords converts stored records to chart entries.  Duplicate feature
// tags within one record are counted once; the first arch region is used.
func FromRecords(records []*model.DentalRecord) []Entry {
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		e := Entry{RecordType: string(r.Type), DentitionType: string(r.DentitionType)}
		seen := map[model.Feature]bool{}
		for _, f := range r.SpecificFeatures {
			if !seen[f] {
				seen[f] = true
				e.Features = append(e.Features, string(f))
			}
		}
		if len(r.ArchRegion) > 0 {
			e.Region = string(r.ArchRegion[0])
		}
		out = append(out, e)
	}
	return out
}
