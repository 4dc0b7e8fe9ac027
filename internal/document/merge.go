package document

import "fmt"

// ReplaceByID swaps the stored record whose id matches incoming's id.
// Returns the position of the replaced record. The incoming record must
// carry an id field; a record with no match leaves the document unchanged.
func (d *Document) ReplaceByID(incoming Record) (int, error) {
	id := incoming.ID()
	if id == "" {
		return 0, fmt.Errorf("record has no id field")
	}

	for i, rec := range d.Records {
		if rec.ID() == id {
			d.Records[i] = incoming
			return i, nil
		}
	}

	return 0, fmt.Errorf("no record with id %q", id)
}

// DeleteByName removes every record whose name field matches one of names.
// Returns the names actually deleted, in document order. Records whose
// name field is missing or not a scalar never match.
func (d *Document) DeleteByName(field string, names []string) []string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	kept := make([]Record, 0, len(d.Records))

	var deleted []string

	for _, rec := range d.Records {
		name, err := rec.Name(field)
		if err == nil && name != "" && want[name] {
			deleted = append(deleted, name)
			continue
		}

		kept = append(kept, rec)
	}

	d.Records = kept

	return deleted
}
