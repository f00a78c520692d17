package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/db"
	"github.com/xujunlin/mydjango/internal/form"
	"github.com/xujunlin/mydjango/internal/res"
	"github.com/xujunlin/mydjango/internal/service"
)

func teacherView(t *db.Teacher) gin.H {
	if t == nil {
		return nil
	}
	return gin.H{
		"id":               t.ID,
		"name":             t.Name,
		"positional_title": t.PositionalTitle,
		"profile":          t.Profile,
		"avatar_url":       t.AvatarURL,
	}
}

func courseRow(course db.Course) gin.H {
	row := gin.H{
		"id":          course.ID,
		"title":       course.Title,
		"cover_url":   course.CoverURL,
		"video_url":   course.VideoURL,
		"duration":    course.Duration,
		"teacher":     teacherView(course.Teacher),
		"update_time": course.UpdatedAt.Local().Format(service.ListTimeLayout),
	}
	if course.Category != nil {
		row["category"] = gin.H{"id": course.Category.ID, "name": course.Category.Name}
	}
	return row
}

// courseInputFrom 转换课程表单，时长不是合法数字时返回 false。
func courseInputFrom(values form.Values) (service.CourseInput, bool) {
	var duration float64
	if raw := values.String("duration"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			return service.CourseInput{}, false
		}
		duration = parsed
	}
	return service.CourseInput{
		Title:      values.String("title"),
		CoverURL:   values.String("cover_url"),
		VideoURL:   values.String("video_url"),
		Duration:   duration,
		Profile:    values.String("profile"),
		Outline:    values.String("outline"),
		TeacherID:  values.Uint("teacher"),
		CategoryID: values.Uint("category"),
	}, true
}

func (a *API) courseRefError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeacherNotFound):
		res.Fail(c, res.PARAMERR, "讲师不存在")
	case errors.Is(err, service.ErrCategoryNotFound):
		res.Fail(c, res.PARAMERR, "课程分类不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		res.Fail(c, res.NODATA, "需要更新的课程不存在")
	default:
		a.dbError(c, "保存课程失败", err)
	}
}

func (a *API) listCourses(c *gin.Context) {
	courses, err := a.courses.List()
	if err != nil {
		a.dbError(c, "获取课程列表失败", err)
		return
	}
	rows := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, courseRow(course))
	}
	res.OKWith(c, "", gin.H{"courses": rows})
}

// GetCourses 前台课程列表
func (a *API) GetCourses(c *gin.Context) {
	a.listCourses(c)
}

// GetCourseDetail 课程详情，简介与大纲渲染为 HTML
func (a *API) GetCourseDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.String(http.StatusNotFound, "课程不存在")
		return
	}
	detail, err := a.courses.Detail(id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.String(http.StatusNotFound, "课程不存在")
			return
		}
		a.dbError(c, "获取课程失败", err)
		return
	}

	course := courseRow(detail.Course)
	course["profile"] = detail.ProfileHTML
	course["outline"] = detail.OutlineHTML
	res.OKWith(c, "", gin.H{"course": course})
}

// GetCoursesManage 后台课程列表
func (a *API) GetCoursesManage(c *gin.Context) {
	a.listCourses(c)
}

// GetCoursePub 发布页所需的讲师与分类
func (a *API) GetCoursePub(c *gin.Context) {
	teachers, err := a.courses.Teachers()
	if err != nil {
		a.dbError(c, "获取讲师列表失败", err)
		return
	}
	categories, err := a.courses.Categories()
	if err != nil {
		a.dbError(c, "获取课程分类失败", err)
		return
	}

	teacherItems := make([]gin.H, 0, len(teachers))
	for i := range teachers {
		teacherItems = append(teacherItems, teacherView(&teachers[i]))
	}
	categoryItems := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		categoryItems = append(categoryItems, gin.H{"id": category.ID, "name": category.Name})
	}
	res.OKWith(c, "", gin.H{"teachers": teacherItems, "categories": categoryItems})
}

// CreateCourse 发布课程
func (a *API) CreateCourse(c *gin.Context) {
	values, ok := bindForm(c, coursesPubForm())
	if !ok {
		return
	}
	input, ok := courseInputFrom(values)
	if !ok {
		res.Fail(c, res.PARAMERR, "视频时长格式不正确")
		return
	}
	course, err := a.courses.Create(input)
	if err != nil {
		a.courseRefError(c, err)
		return
	}
	res.OKWith(c, "课程发布成功", gin.H{"id": course.ID})
}

// GetCourseEdit 编辑页数据
func (a *API) GetCourseEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的课程不存在")
		return
	}
	course, err := a.courses.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			res.Fail(c, res.NODATA, "需要更新的课程不存在")
			return
		}
		a.dbError(c, "获取课程失败", err)
		return
	}
	row := courseRow(*course)
	row["profile"] = course.Profile
	row["outline"] = course.Outline
	res.OKWith(c, "", gin.H{"course": row})
}

// UpdateCourse 编辑课程
func (a *API) UpdateCourse(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.NODATA, "需要更新的课程不存在")
		return
	}
	values, ok := bindForm(c, coursesPubForm())
	if !ok {
		return
	}
	input, ok := courseInputFrom(values)
	if !ok {
		res.Fail(c, res.PARAMERR, "视频时长格式不正确")
		return
	}
	if _, err := a.courses.Update(id, input); err != nil {
		a.courseRefError(c, err)
		return
	}
	res.OKWith(c, "课程更新成功", nil)
}

// DeleteCourse 逻辑删除课程
func (a *API) DeleteCourse(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		res.Fail(c, res.PARAMERR, "课程不存在")
		return
	}
	if err := a.courses.Delete(id); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			res.Fail(c, res.PARAMERR, "课程不存在")
			return
		}
		a.dbError(c, "删除课程失败", err)
		return
	}
	res.OKWith(c, "课程删除成功", nil)
}
