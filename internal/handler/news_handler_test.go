package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/xujunlin/mydjango/internal/db"
)

func validNewsBody(tagID uint) map[string]any {
	return map[string]any{
		"title":     "Go 1.24 发布",
		"digest":    "新版本特性一览",
		"content":   "<p>正文</p><script>alert(1)</script>",
		"image_url": "https://example.com/cover.png",
		"tag":       tagID,
	}
}

func TestCreateNewsMissingTitleStoresNothing(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	body := validNewsBody(tag.ID)
	delete(body, "title")

	w := call(t, env.api.CreateNews, http.MethodPost, "/admin/news/pub/", body, nil, env.staff)
	expectErrno(t, decode(t, w), "4103", "文章标题不能为空")

	var count int64
	db.DB.Model(&db.News{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no news to be stored, got %d", count)
	}
}

func TestCreateNewsJoinsFieldErrors(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	body := validNewsBody(999)
	body["image_url"] = "not a url"

	w := call(t, env.api.CreateNews, http.MethodPost, "/admin/news/pub/", body, nil, env.staff)
	expectErrno(t, decode(t, w), "4103", "文章图片url格式不正确/文章标签id不存在")
}

func TestCreateNewsSanitizesContent(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	w := call(t, env.api.CreateNews, http.MethodPost, "/admin/news/pub/", validNewsBody(tag.ID), nil, env.staff)
	expectErrno(t, decode(t, w), "0", "文章发布成功")

	var news db.News
	if err := db.DB.First(&news).Error; err != nil {
		t.Fatalf("failed to load news: %v", err)
	}
	if news.AuthorID != env.staff.ID {
		t.Fatalf("expected author %d, got %d", env.staff.ID, news.AuthorID)
	}
	if strings.Contains(news.Content, "<script>") {
		t.Fatalf("expected script to be stripped, got %q", news.Content)
	}
}

func TestUpdateNewsMissing(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	w := call(t, env.api.UpdateNews, http.MethodPut, "/admin/news/77/", validNewsBody(tag.ID), idParam(77), env.staff)
	expectErrno(t, decode(t, w), "4002", "需要更新的文章不存在")
}

func TestDeleteNewsSoftDeletes(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	tag := seedTag(t, "Go")
	news := seedNews(t, "bye", tag.ID, env.staff.ID)

	w := call(t, env.api.DeleteNews, http.MethodDelete, "/admin/news/", nil, idParam(news.ID), env.staff)
	expectErrno(t, decode(t, w), "0", "文章删除成功")

	var stored db.News
	if err := db.DB.First(&stored, news.ID).Error; err != nil {
		t.Fatalf("expected row to remain: %v", err)
	}
	if !stored.IsDelete {
		t.Fatalf("expected is_delete to be set")
	}

	w = call(t, env.api.DeleteNews, http.MethodDelete, "/admin/news/", nil, idParam(news.ID), env.staff)
	expectErrno(t, decode(t, w), "4103", "需要删除的文章不存在")
}

func TestGetNewsManageFiltersAndEchoesParams(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	goTag := seedTag(t, "Go")
	pyTag := seedTag(t, "Python")
	seedNews(t, "Gin middleware", goTag.ID, env.staff.ID)
	seedNews(t, "gin routing", goTag.ID, env.staff.ID)
	seedNews(t, "Django views", pyTag.ID, env.staff.ID)

	w := call(t, env.api.GetNewsManage, http.MethodGet, "/admin/news/?title=GIN&start_time=bad&end_time=2024/01/01", nil, nil, env.staff)
	resp := decode(t, w)

	var data struct {
		NewsInfo   []map[string]any `json:"news_info"`
		StartTime  string           `json:"start_time"`
		EndTime    string           `json:"end_time"`
		Title      string           `json:"title"`
		OtherParam string           `json:"other_param"`
		TotalPages int              `json:"total_page_num"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data.NewsInfo) != 2 {
		t.Fatalf("expected 2 news matching title, got %d", len(data.NewsInfo))
	}
	if data.StartTime != "" || data.EndTime != "" {
		t.Fatalf("expected unparseable dates to be dropped, got %q/%q", data.StartTime, data.EndTime)
	}
	if data.Title != "GIN" || !strings.Contains(data.OtherParam, "title=GIN") {
		t.Fatalf("expected title to be echoed, got %q / %q", data.Title, data.OtherParam)
	}
	if data.TotalPages != 1 {
		t.Fatalf("expected 1 page, got %d", data.TotalPages)
	}
}
