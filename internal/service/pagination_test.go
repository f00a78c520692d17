package service

import (
	"reflect"
	"testing"

	"github.com/xujunlin/mydjango/internal/db"
	"gorm.io/gorm"
)

func TestCalculateTotalPages(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
		{3, 0, 1},
	}
	for _, tc := range cases {
		if got := calculateTotalPages(tc.total, tc.perPage); got != tc.want {
			t.Fatalf("calculateTotalPages(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		name      string
		page      Page
		left      []int
		right     []int
		leftMore  bool
		rightMore bool
	}{
		{"first of many", Page{Number: 1, TotalPages: 10}, []int{}, []int{2, 3}, false, true},
		{"near start", Page{Number: 4, TotalPages: 10}, []int{1, 2, 3}, []int{5, 6}, false, true},
		{"middle", Page{Number: 5, TotalPages: 10}, []int{3, 4}, []int{6, 7}, true, true},
		{"near end", Page{Number: 8, TotalPages: 10}, []int{6, 7}, []int{9, 10}, true, false},
		{"single page", Page{Number: 1, TotalPages: 1}, []int{}, []int{}, false, false},
	}
	for _, tc := range cases {
		w := tc.page.Window(2)
		if !reflect.DeepEqual(w.LeftPages, tc.left) || !reflect.DeepEqual(w.RightPages, tc.right) {
			t.Fatalf("%s: unexpected pages left=%v right=%v", tc.name, w.LeftPages, w.RightPages)
		}
		if w.LeftHasMore != tc.leftMore || w.RightHasMore != tc.rightMore {
			t.Fatalf("%s: unexpected has_more left=%v right=%v", tc.name, w.LeftHasMore, w.RightHasMore)
		}
		if w.CurrentPage != tc.page.Number || w.TotalPages != tc.page.TotalPages {
			t.Fatalf("%s: unexpected current/total %d/%d", tc.name, w.CurrentPage, w.TotalPages)
		}
	}
}

func TestPaginateClampsToLastPage(t *testing.T) {
	gdb := setupServiceTestDB(t)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		seedTag(t, gdb, name)
	}

	var tags []db.Tag
	page, err := paginate(gdb.Model(&db.Tag{}), 99, 2, &tags, func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") })
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Number != 3 || page.TotalPages != 3 || page.Total != 5 {
		t.Fatalf("unexpected page %+v", page)
	}
	if len(tags) != 1 || tags[0].Name != "e" {
		t.Fatalf("expected last page to hold tag e, got %+v", tags)
	}

	for _, requested := range []int{0, -1} {
		var last []db.Tag
		page, err = paginate(gdb.Model(&db.Tag{}), requested, 2, &last, func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") })
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if page.Number != 3 || len(last) != 1 || last[0].Name != "e" {
			t.Fatalf("page %d: expected last page, got %+v with %+v", requested, page, last)
		}
	}
}

func TestPaginateEmptyCollectionHasOnePage(t *testing.T) {
	gdb := setupServiceTestDB(t)

	var tags []db.Tag
	page, err := paginate(gdb.Model(&db.Tag{}), 3, 5, &tags, nil)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Number != 1 || page.TotalPages != 1 || len(tags) != 0 {
		t.Fatalf("unexpected empty page %+v", page)
	}
}
