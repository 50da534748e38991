package person

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Person is a single stored record.
type Person struct {
	// ID is a ULID assigned at creation and never reused
	ID string `json:"id"`

	// Name is the free-text name as entered
	Name string `json:"name"`

	// BirthDate is YYYY-MM-DD, or the raw input when it could not be interpreted
	BirthDate string `json:"birthDate"`

	// DocumentNumber is free text, usually with separators (123.456.789-00)
	DocumentNumber string `json:"documentNumber"`

	// Seq is the creation sequence; zero for records saved before it existed
	Seq int64 `json:"seq,omitempty"`
}

// IDGenerator hands out ULIDs paired with a monotonic creation sequence.
// Safe for concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	seq     int64
	now     func() time.Time
}

// NewIDGenerator returns a generator whose first sequence number is lastSeq+1.
func NewIDGenerator(lastSeq int64) *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		seq:     lastSeq,
		now:     time.Now,
	}
}

// Next returns a fresh ID and sequence number.
func (g *IDGenerator) Next() (string, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	return id.String(), g.seq
}

// New builds a Person with a fresh identity. Fields are stored as given.
func (g *IDGenerator) New(name, birthDate, documentNumber string) Person {
	id, seq := g.Next()
	return Person{
		ID:             id,
		Name:           name,
		BirthDate:      birthDate,
		DocumentNumber: documentNumber,
		Seq:            seq,
	}
}

// LastSeq returns the highest sequence number in people.
func LastSeq(people []Person) int64 {
	var last int64
	for _, p := range people {
		if p.Seq > last {
			last = p.Seq
		}
	}
	return last
}

// CreatedBefore orders records by creation: sequence first, then ID.
// Records without a sequence sort by ID alone, which for ULIDs is creation order.
func CreatedBefore(a, b Person) bool {
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.ID < b.ID
}
