package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/xujunlin/mydjango/internal/db"
)

func validCourseBody() map[string]any {
	return map[string]any{
		"title":     "Go 并发编程",
		"cover_url": "https://example.com/cover.png",
		"video_url": "https://example.com/video.mp4",
		"duration":  "95.5",
		"profile":   "**入门**课程",
		"outline":   "- goroutine\n- channel",
	}
}

func TestCreateCourseValidatesRefsAndDuration(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	teacher := db.Teacher{Name: "Rob"}
	db.DB.Create(&teacher)

	cases := []struct {
		name   string
		patch  map[string]any
		errmsg string
	}{
		{"bad duration", map[string]any{"duration": "1h30m"}, "视频时长格式不正确"},
		{"missing teacher", map[string]any{"teacher": 99}, "讲师不存在"},
		{"missing category", map[string]any{"teacher": teacher.ID, "category": 99}, "课程分类不存在"},
		{"missing title", map[string]any{"title": ""}, "视频标题不能为空"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validCourseBody()
			for k, v := range tc.patch {
				body[k] = v
			}
			w := call(t, env.api.CreateCourse, http.MethodPost, "/admin/courses/pub/", body, nil, env.staff)
			expectErrno(t, decode(t, w), "4103", tc.errmsg)
		})
	}

	body := validCourseBody()
	body["teacher"] = teacher.ID
	w := call(t, env.api.CreateCourse, http.MethodPost, "/admin/courses/pub/", body, nil, env.staff)
	expectErrno(t, decode(t, w), "0", "课程发布成功")

	var course db.Course
	if err := db.DB.First(&course).Error; err != nil {
		t.Fatalf("failed to load course: %v", err)
	}
	if course.Duration != 95.5 || course.TeacherID == nil || *course.TeacherID != teacher.ID {
		t.Fatalf("unexpected course: %+v", course)
	}
}

func TestGetCourseDetailRendersMarkdown(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	course := db.Course{Title: "Go", Profile: "**入门**课程", Outline: "- goroutine"}
	db.DB.Create(&course)

	resp := decode(t, call(t, env.api.GetCourseDetail, http.MethodGet, "/course/", nil, idParam(course.ID), nil))
	var data struct {
		Course struct {
			Profile string `json:"profile"`
			Outline string `json:"outline"`
		} `json:"course"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if !strings.Contains(data.Course.Profile, "<strong>入门</strong>") {
		t.Fatalf("expected rendered profile, got %q", data.Course.Profile)
	}
	if !strings.Contains(data.Course.Outline, "<li>goroutine</li>") {
		t.Fatalf("expected rendered outline, got %q", data.Course.Outline)
	}

	w := call(t, env.api.GetCourseDetail, http.MethodGet, "/course/", nil, idParam(course.ID+1), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing course, got %d", w.Code)
	}
}

func TestUpdateAndDeleteMissingCourse(t *testing.T) {
	env, cleanup := setupTestDB(t)
	defer cleanup()

	w := call(t, env.api.UpdateCourse, http.MethodPut, "/admin/courses/", validCourseBody(), idParam(42), env.staff)
	expectErrno(t, decode(t, w), "4002", "需要更新的课程不存在")

	w = call(t, env.api.DeleteCourse, http.MethodDelete, "/admin/courses/", nil, idParam(42), env.staff)
	expectErrno(t, decode(t, w), "4103", "课程不存在")
}
