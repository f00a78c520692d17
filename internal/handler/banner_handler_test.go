package handler

import (
	"net/http"
	"testing"

	"github.com/xujunlin/mydjango/internal/db"
)

func TestDeleteMissingBannerLeavesStoreUntouched(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	news := seedNews(t, "banner", tag.ID, env.staff.ID)
	banner := db.Banner{NewsID: news.ID, Priority: 1, ImageURL: "https://example.com/b.png"}
	db.DB.Create(&banner)

	w := call(t, env.api.DeleteBanner, http.MethodDelete, "/admin/banners/", nil, idParam(banner.ID+100), env.staff)
	expectErrno(t, decode(t, w), "4103", "轮播图不存在")

	var stored db.Banner
	db.DB.First(&stored, banner.ID)
	if stored.IsDelete {
		t.Fatalf("expected existing banner to stay alive")
	}
}

func TestUpdateBannerUnchangedPriority(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	news := seedNews(t, "banner", tag.ID, env.staff.ID)
	banner := db.Banner{NewsID: news.ID, Priority: 2, ImageURL: "https://example.com/b.png"}
	db.DB.Create(&banner)

	w := call(t, env.api.UpdateBanner, http.MethodPut, "/admin/banners/", map[string]any{"priority": 2}, idParam(banner.ID), env.staff)
	expectErrno(t, decode(t, w), "4103", "轮播图优先级优先级无变化")

	w = call(t, env.api.UpdateBanner, http.MethodPut, "/admin/banners/", map[string]any{"priority": 2, "image_url": "https://example.com/new.png"}, idParam(banner.ID), env.staff)
	expectErrno(t, decode(t, w), "4103", "轮播图优先级优先级无变化")

	var stored db.Banner
	db.DB.First(&stored, banner.ID)
	if stored.ImageURL != "https://example.com/b.png" {
		t.Fatalf("expected image to stay when priority is unchanged, got %q", stored.ImageURL)
	}

	w = call(t, env.api.UpdateBanner, http.MethodPut, "/admin/banners/", map[string]any{"priority": 1, "image_url": "https://example.com/new.png"}, idParam(banner.ID), env.staff)
	expectErrno(t, decode(t, w), "0", "轮播图更新成功")

	db.DB.First(&stored, banner.ID)
	if stored.Priority != 1 || stored.ImageURL != "https://example.com/new.png" {
		t.Fatalf("expected priority and image to be replaced, got %+v", stored)
	}
}

func TestAddBannerValidatesImageURL(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	news := seedNews(t, "banner", tag.ID, env.staff.ID)

	w := call(t, env.api.AddBanner, http.MethodPost, "/admin/banners/add/", map[string]any{"news_id": news.ID, "priority": 1}, nil, env.staff)
	expectErrno(t, decode(t, w), "4103", "轮播图url不能为空")

	w = call(t, env.api.AddBanner, http.MethodPost, "/admin/banners/add/", map[string]any{"news_id": news.ID, "priority": 1, "image_url": "https://example.com/a.png"}, nil, env.staff)
	expectErrno(t, decode(t, w), "0", "轮播图添加成功")
}
