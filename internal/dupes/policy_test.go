package dupes

import (
	"reflect"
	"testing"

	"github.com/hpungsan/roster/internal/person"
)

func ids(people []person.Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.ID)
	}
	return out
}

func TestDedupe_KeepsLargestID(t *testing.T) {
	people := []person.Person{
		rec("02", "Ana Lima", "1990-01-01", "111"),
		rec("03", "ana lima", "1991-01-01", "222"),
		rec("01", "ANA  LIMA", "1992-01-01", "333"),
	}

	survivors, plan := Dedupe(people)

	if plan.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", plan.Count())
	}
	if got := ids(survivors); !reflect.DeepEqual(got, []string{"03"}) {
		t.Errorf("survivors = %v, want [03]", got)
	}
	if want := []string{"02", "01"}; !reflect.DeepEqual(plan.Removed, want) {
		t.Errorf("Removed = %v, want %v (collection order)", plan.Removed, want)
	}
}

func TestDedupe_SequenceBeatsIDOrder(t *testing.T) {
	people := []person.Person{
		{ID: "zzz", Name: "Ana", BirthDate: "1", DocumentNumber: "1", Seq: 1},
		{ID: "aaa", Name: "Ana", BirthDate: "2", DocumentNumber: "2", Seq: 2},
	}

	survivors, _ := Dedupe(people)

	if got := ids(survivors); !reflect.DeepEqual(got, []string{"aaa"}) {
		t.Errorf("survivors = %v, want the later sequence [aaa]", got)
	}
}

func TestDedupe_UnionAcrossFields(t *testing.T) {
	people := []person.Person{
		rec("a", "Ana", "1990-01-01", "1"),
		rec("b", "Bia", "1990-01-01", "2"),  // shares date with a
		rec("c", "Cris", "1980-01-01", "2"), // shares document with b
		rec("d", "Duda", "1970-01-01", "4"),
	}

	survivors, plan := Dedupe(people)

	// date group {a,b}: a removed. document group {b,c}: b removed.
	if got := ids(survivors); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("survivors = %v, want [c d]", got)
	}
	if !plan.Removes("a") || !plan.Removes("b") || plan.Removes("c") {
		t.Errorf("Removed = %v", plan.Removed)
	}
}

func TestDedupe_PreservesSurvivorOrder(t *testing.T) {
	people := []person.Person{
		rec("e", "Eva", "1", "1"),
		rec("a", "Ana", "2", "2"),
		rec("b", "Ana", "3", "3"),
		rec("c", "Cris", "4", "4"),
	}

	survivors, _ := Dedupe(people)

	if got := ids(survivors); !reflect.DeepEqual(got, []string{"e", "b", "c"}) {
		t.Errorf("survivors = %v, want [e b c]", got)
	}
}

func TestDedupe_Empty(t *testing.T) {
	survivors, plan := Dedupe(nil)

	if len(survivors) != 0 {
		t.Errorf("survivors = %v, want empty", survivors)
	}
	if plan.Count() != 0 {
		t.Errorf("Count() = %d, want 0", plan.Count())
	}
}

func TestDedupe_NoDuplicatesIsNoop(t *testing.T) {
	people := []person.Person{
		rec("a", "Ana", "1990-01-01", "1"),
		rec("b", "Bia", "1991-01-01", "2"),
	}

	survivors, plan := Dedupe(people)

	if plan.Count() != 0 || !reflect.DeepEqual(survivors, people) {
		t.Errorf("expected no-op, got survivors %v plan %v", ids(survivors), plan.Removed)
	}
}

func TestDedupe_ResultHasNoDuplicates(t *testing.T) {
	people := []person.Person{
		rec("a", "Ana", "1990-01-01", "1"),
		rec("b", "ana", "1991-01-01", "2"),
		rec("c", "Bia", "1991-01-01", "3"),
		rec("d", "Cris", "1992-01-01", "3"),
		rec("e", "Duda", "1993-01-01", "5"),
	}

	survivors, _ := Dedupe(people)

	if Build(survivors).Summary().HasDuplicates {
		t.Errorf("survivors %v still contain duplicates", ids(survivors))
	}
}

func TestApply_UsesPlanFromIndex(t *testing.T) {
	people := []person.Person{
		rec("a", "Ana", "1", "1"),
		rec("b", "Ana", "2", "2"),
	}

	plan := NewPlan(Build(people))
	survivors := Apply(people, plan)

	if got := ids(survivors); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("survivors = %v, want [b]", got)
	}
}
