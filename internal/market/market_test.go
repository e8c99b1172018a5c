package market

import (
	"testing"

	"github.com/bowerhall/regen/internal/catalog"
)

var categories = []catalog.Category{
	{Title: "Stationery", Items: []string{"Recycled Paper Notebook", "Bamboo Pen"}},
	{Title: "Home Accessories", Items: []string{"Jute Doormat", "Bamboo Toothbrush Holder"}},
	{Title: "Eco-friendly Products", Items: []string{"Cloth Bag"}},
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	got := Search(categories, "  ")
	if len(got) != 3 || Count(got) != 5 {
		t.Errorf("expected everything, got %+v", got)
	}
}

func TestSearchMatchesItemsCaseInsensitive(t *testing.T) {
	got := Search(categories, "BAMBOO")
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Title != "Stationery" || len(got[0].Items) != 1 || got[0].Items[0] != "Bamboo Pen" {
		t.Errorf("unexpected first match: %+v", got[0])
	}
	if got[1].Items[0] != "Bamboo Toothbrush Holder" {
		t.Errorf("unexpected second match: %+v", got[1])
	}
}

func TestSearchTitleMatchKeepsAllItems(t *testing.T) {
	got := Search(categories, "home")
	if len(got) != 1 || len(got[0].Items) != 2 {
		t.Errorf("expected whole Home Accessories category, got %+v", got)
	}
}

func TestSearchNoMatch(t *testing.T) {
	if got := Search(categories, "plutonium"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	Search(categories, "pen")
	if len(categories[0].Items) != 2 {
		t.Error("search must not modify the catalog")
	}
}

func TestSearchDefaultCatalog(t *testing.T) {
	all := catalog.Default().Market.Categories
	if Count(Search(all, "")) == 0 {
		t.Error("default catalog should list products")
	}
}
