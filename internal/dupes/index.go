// Package dupes groups people by normalized field keys and decides which
// redundant records to drop.
package dupes

import (
	"sort"

	"github.com/hpungsan/roster/internal/person"
)

// Field identifies one of the three compared fields.
type Field string

const (
	FieldName      Field = "name"
	FieldBirthDate Field = "birthDate"
	FieldDocument  Field = "documentNumber"
)

// Fields lists the compared fields in reporting order.
var Fields = []Field{FieldName, FieldBirthDate, FieldDocument}

// Key derives the comparison key for a raw field value.
func (f Field) Key(value string) string {
	switch f {
	case FieldName:
		return person.NameKey(value)
	case FieldBirthDate:
		return person.BirthDateKey(value)
	default:
		return person.DocumentKey(value)
	}
}

// Value returns the raw value of the field for p.
func (f Field) Value(p person.Person) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldBirthDate:
		return p.BirthDate
	default:
		return p.DocumentNumber
	}
}

// Index holds key -> members groupings for each field, members in
// collection order. It is a snapshot and never changes after Build.
type Index struct {
	groups map[Field]map[string][]person.Person
	people []person.Person
}

// Flags marks which fields of a record are shared with another record.
type Flags struct {
	Name      bool `json:"name"`
	BirthDate bool `json:"birthDate"`
	Document  bool `json:"documentNumber"`
}

// Any reports whether any field is duplicated.
func (f Flags) Any() bool {
	return f.Name || f.BirthDate || f.Document
}

// Summary counts duplicated groups per field.
type Summary struct {
	DuplicateNames      int  `json:"duplicate_names"`
	DuplicateBirthDates int  `json:"duplicate_birth_dates"`
	DuplicateDocuments  int  `json:"duplicate_documents"`
	HasDuplicates       bool `json:"has_duplicates"`
}

// Group is a set of records sharing one key.
type Group struct {
	Field   Field           `json:"field"`
	Key     string          `json:"key"`
	Members []person.Person `json:"members"`
}

// Build indexes people in one pass.
func Build(people []person.Person) *Index {
	ix := &Index{
		groups: make(map[Field]map[string][]person.Person, len(Fields)),
		people: people,
	}
	for _, f := range Fields {
		ix.groups[f] = make(map[string][]person.Person)
	}

	for _, p := range people {
		for _, f := range Fields {
			key := f.Key(f.Value(p))
			ix.groups[f][key] = append(ix.groups[f][key], p)
		}
	}
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.people)
}

// Count returns how many records share the key derived from value.
func (ix *Index) Count(f Field, value string) int {
	return len(ix.groups[f][f.Key(value)])
}

// IsDuplicateName reports whether name's key occurs at least twice.
func (ix *Index) IsDuplicateName(name string) bool {
	return ix.Count(FieldName, name) >= 2
}

// IsDuplicateBirthDate reports whether date occurs at least twice.
func (ix *Index) IsDuplicateBirthDate(date string) bool {
	return ix.Count(FieldBirthDate, date) >= 2
}

// IsDuplicateDocument reports whether doc's key occurs at least twice.
func (ix *Index) IsDuplicateDocument(doc string) bool {
	return ix.Count(FieldDocument, doc) >= 2
}

// Flags returns the per-field duplicate marks for p.
func (ix *Index) Flags(p person.Person) Flags {
	return Flags{
		Name:      ix.IsDuplicateName(p.Name),
		BirthDate: ix.IsDuplicateBirthDate(p.BirthDate),
		Document:  ix.IsDuplicateDocument(p.DocumentNumber),
	}
}

// Summary counts the duplicated groups of each field.
func (ix *Index) Summary() Summary {
	s := Summary{
		DuplicateNames:      ix.duplicatedGroups(FieldName),
		DuplicateBirthDates: ix.duplicatedGroups(FieldBirthDate),
		DuplicateDocuments:  ix.duplicatedGroups(FieldDocument),
	}
	s.HasDuplicates = s.DuplicateNames+s.DuplicateBirthDates+s.DuplicateDocuments > 0
	return s
}

func (ix *Index) duplicatedGroups(f Field) int {
	n := 0
	for _, members := range ix.groups[f] {
		if len(members) > 1 {
			n++
		}
	}
	return n
}

// Groups returns every duplicated group, ordered by field then key.
func (ix *Index) Groups() []Group {
	var out []Group
	for _, f := range Fields {
		keys := make([]string, 0)
		for key, members := range ix.groups[f] {
			if len(members) > 1 {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		for _, key := range keys {
			members := ix.groups[f][key]
			out = append(out, Group{
				Field:   f,
				Key:     key,
				Members: append([]person.Person(nil), members...),
			})
		}
	}
	return out
}
