package catalog_test

import (
	"reflect"
	"testing"

	"bellashop/internal/catalog"
	"bellashop/internal/domain"
)

func sample() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Leather Sofa", Category: "Sofa", Price: 1200},
		{ID: 2, Name: "Tansu Chest", Category: "Cabinet", Price: 25000},
		{ID: 3, Name: "Oak Dining Table", Category: "Table", Price: 800},
		{ID: 4, Name: "Sofa Bed", Category: "Sofa", Price: 800},
		{ID: 5, Name: "Shoji Divider", Category: "Divider", Price: 300},
	}
}

func ids(ps []domain.Product) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestApply_EmptyQueryKeepsBaseOrder(t *testing.T) {
	in := sample()
	got := catalog.Apply(in, catalog.Query{})
	if !reflect.DeepEqual(ids(got), []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected order %v", ids(got))
	}
	// blank search behaves like no search
	got = catalog.Apply(in, catalog.Query{Search: "   "})
	if len(got) != len(in) {
		t.Fatalf("blank search filtered items: %v", ids(got))
	}
}

func TestApply_SearchIsCaseInsensitiveOnNameOrCategory(t *testing.T) {
	got := catalog.Apply(sample(), catalog.Query{Search: "sofa"})
	if !reflect.DeepEqual(ids(got), []int64{1, 4}) {
		t.Fatalf("want [1 4], got %v", ids(got))
	}
	got = catalog.Apply(sample(), catalog.Query{Search: "CABI"})
	if !reflect.DeepEqual(ids(got), []int64{2}) {
		t.Fatalf("category match failed: %v", ids(got))
	}
	got = catalog.Apply(sample(), catalog.Query{Search: "wardrobe"})
	if len(got) != 0 {
		t.Fatalf("expected no match, got %v", ids(got))
	}
}

func TestApply_CategoryIsExact(t *testing.T) {
	got := catalog.Apply(sample(), catalog.Query{Category: "Sofa"})
	if !reflect.DeepEqual(ids(got), []int64{1, 4}) {
		t.Fatalf("want [1 4], got %v", ids(got))
	}
	if got := catalog.Apply(sample(), catalog.Query{Category: "sofa"}); len(got) != 0 {
		t.Fatalf("category filter must be exact, got %v", ids(got))
	}
}

func TestApply_PriceSortsMirrorEachOther(t *testing.T) {
	in := sample()
	asc := catalog.Apply(in, catalog.Query{Sort: catalog.SortPriceAsc})
	desc := catalog.Apply(in, catalog.Query{Sort: catalog.SortPriceDesc})

	if !reflect.DeepEqual(ids(asc), []int64{5, 3, 4, 1, 2}) {
		t.Fatalf("asc order %v", ids(asc))
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("desc is not the reverse of asc: asc=%v desc=%v", ids(asc), ids(desc))
		}
	}
	// input untouched
	if !reflect.DeepEqual(ids(in), []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("input mutated: %v", ids(in))
	}
}

func TestApply_Deterministic(t *testing.T) {
	q := catalog.Query{Category: "Sofa", Search: "s", Sort: catalog.SortPriceDesc}
	a := catalog.Apply(sample(), q)
	b := catalog.Apply(sample(), q)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same inputs produced different output")
	}
}

func TestParseSort(t *testing.T) {
	cases := map[string]catalog.SortOrder{
		"":           catalog.SortDefault,
		"price-asc":  catalog.SortPriceAsc,
		"PRICE-DESC": catalog.SortPriceDesc,
		"newest":     catalog.SortDefault,
	}
	for in, want := range cases {
		if got := catalog.ParseSort(in); got != want {
			t.Errorf("ParseSort(%q)=%q want %q", in, got, want)
		}
	}
}

func TestSuggest(t *testing.T) {
	got := catalog.Suggest(sample(), "so", catalog.SuggestionLimit)
	// "Sofa" category appears twice but is suggested once
	want := []string{"Sofa", "Sofa Bed"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
	if got := catalog.Suggest(sample(), "  ", 8); len(got) != 0 {
		t.Fatalf("blank prefix should suggest nothing, got %v", got)
	}
	if got := catalog.Suggest(sample(), "SHO", 8); !reflect.DeepEqual(got, []string{"Shoji Divider"}) {
		t.Fatalf("case-insensitive prefix failed: %v", got)
	}
}

func TestSuggest_Capped(t *testing.T) {
	var ps []domain.Product
	for i := 0; i < 20; i++ {
		ps = append(ps, domain.Product{ID: int64(i), Name: "Chair " + string(rune('A'+i))})
	}
	if got := catalog.Suggest(ps, "chair", catalog.SuggestionLimit); len(got) != 8 {
		t.Fatalf("want 8 suggestions, got %d", len(got))
	}
}

func TestCategoriesAndTally(t *testing.T) {
	ps := sample()
	ps = append(ps, domain.Product{ID: 6, Name: "Lamp", Status: domain.StatusSold})
	ps[0].Status = domain.StatusSold
	if got := catalog.Categories(ps); !reflect.DeepEqual(got, []string{"Cabinet", "Divider", "Sofa", "Table"}) {
		t.Fatalf("categories %v", got)
	}
	st := catalog.Tally(ps)
	if st != (domain.Stats{Total: 6, Available: 4, Sold: 2}) {
		t.Fatalf("tally %+v", st)
	}
}
