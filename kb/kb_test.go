package kb

import (
	"testing"

	"github.com/signalsfoundry/navhealth/model"
)

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	entries := []*model.SatelliteEntry{
		{Name: "NVS-01", NoradID: 56759, Active: true},
		{Name: "IRNSS-1E", NoradID: 41241, Active: true},
		{Name: "IRNSS-1B", NoradID: 39635, Active: false},
	}
	for _, e := range entries {
		if err := c.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestCatalog_AddRejectsDuplicates(t *testing.T) {
	c := seedCatalog(t)

	if err := c.Add(&model.SatelliteEntry{Name: "NVS-01", NoradID: 99999}); err == nil {
		t.Error("duplicate name accepted")
	}
	if err := c.Add(&model.SatelliteEntry{Name: "OTHER", NoradID: 56759}); err == nil {
		t.Error("duplicate NORAD ID accepted")
	}
	if c.Size() != 3 {
		t.Errorf("size = %d after rejected adds, want 3", c.Size())
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c := seedCatalog(t)

	if e := c.Get("IRNSS-1E"); e == nil || e.NoradID != 41241 {
		t.Errorf("Get(IRNSS-1E) = %+v", e)
	}
	if e := c.Get("UNKNOWN"); e != nil {
		t.Errorf("Get(UNKNOWN) = %+v, want nil", e)
	}
	if e := c.ByNoradID(56759); e == nil || e.Name != "NVS-01" {
		t.Errorf("ByNoradID(56759) = %+v", e)
	}
	if e := c.ByNoradID(1); e != nil {
		t.Errorf("ByNoradID(1) = %+v, want nil", e)
	}
}

func TestCatalog_ListIsSorted(t *testing.T) {
	c := seedCatalog(t)

	list := c.List()
	want := []string{"IRNSS-1B", "IRNSS-1E", "NVS-01"}
	if len(list) != len(want) {
		t.Fatalf("list length = %d, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestCatalog_ListActiveFiltersInactive(t *testing.T) {
	c := seedCatalog(t)

	active := c.ListActive()
	if len(active) != 2 {
		t.Fatalf("active = %d entries, want 2", len(active))
	}
	for _, e := range active {
		if !e.Active {
			t.Errorf("inactive entry %s in ListActive", e.Name)
		}
	}
}

func TestCatalog_NameToNoradID(t *testing.T) {
	c := seedCatalog(t)

	m := c.NameToNoradID()
	if len(m) != 3 {
		t.Fatalf("table size = %d, want 3", len(m))
	}
	if m["NVS-01"] != 56759 {
		t.Errorf("NVS-01 -> %d, want 56759", m["NVS-01"])
	}
}
