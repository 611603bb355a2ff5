package symbol

import "testing"

func TestOrdered_IsStableAndSorted(t *testing.T) {
	tbl := NewTable()
	ids := []ID{
		New(KindStruct, "b::B", 0),
		New(KindStruct, "a::A", 0),
		New(KindEnum, "a::A", 0),
		New(KindStruct, "a::A", 1),
	}
	for _, id := range ids {
		tbl.Declare(Info{ID: id, QualifiedName: id.QualifiedName()})
	}

	got := tbl.Ordered()
	if len(got) != len(ids) {
		t.Fatalf("expected %d symbols, got %d", len(ids), len(got))
	}
	for i := 1; i < len(got); i++ {
		if !Less(got[i-1], got[i]) {
			t.Fatalf("ordering violated at %d: %s should sort before %s", i, got[i-1], got[i])
		}
	}
}

func TestCompare_KindBeforePathBeforeDisambiguator(t *testing.T) {
	a := New(KindStruct, "z::Z", 0)
	b := New(KindEnum, "a::A", 0)
	if Compare(a, b) >= 0 {
		t.Fatalf("expected struct < enum by Kind ordering, got Compare=%d", Compare(a, b))
	}

	c := New(KindStruct, "a::A", 0)
	d := New(KindStruct, "a::A", 1)
	if !Less(c, d) {
		t.Fatalf("expected disambiguator 0 to sort before disambiguator 1")
	}
}

func TestID_Uniqueness(t *testing.T) {
	a := New(KindStruct, "pkg::Foo", 0)
	b := New(KindStruct, "pkg::Foo", 0)
	if Compare(a, b) != 0 {
		t.Fatalf("expected identical (kind,path,disambiguator) to compare equal")
	}
	c := New(KindEnum, "pkg::Foo", 0)
	if Compare(a, c) == 0 {
		t.Fatalf("expected different kind to break equality")
	}
}

func TestTable_AddEdge_DeterministicOrder(t *testing.T) {
	tbl := NewTable()
	from := New(KindStruct, "S", 0)
	tbl.AddEdge(from, New(KindStruct, "Z", 0))
	tbl.AddEdge(from, New(KindStruct, "A", 0))
	tbl.AddEdge(from, New(KindStruct, "M", 0))

	edges := tbl.Edges(from)
	for i := 1; i < len(edges); i++ {
		if !Less(edges[i-1], edges[i]) {
			t.Fatalf("edges not sorted: %v", edges)
		}
	}
}

func TestStdlib_SameIDAsLiteralStdUserPath(t *testing.T) {
	std := Stdlib("string")
	user := New(KindPrimitive, "std::string", 0)
	// Stdlib reserves the literal "std" path segment, which qualified-name
	// splitting on "::" can also produce: a user primitive named literally
	// "std::string" gets the same Kind, Path and Disambiguator, so the two
	// IDs compare equal. New does not special-case this; the ID type alone
	// does not keep them apart. The Skip below fires only if they differ.
	if Compare(std, user) != 0 {
		t.Skip("no literal collision in this example; documents the boundary case")
	}
}
