package service

import (
	"gorm.io/gorm"
)

// Page 描述一次分页查询的结果元数据。
type Page struct {
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
}

// PageWindow 当前页左右两侧需要展示的页码。
type PageWindow struct {
	LeftPages    []int `json:"left_pages"`
	RightPages   []int `json:"right_pages"`
	CurrentPage  int   `json:"current_page_num"`
	TotalPages   int   `json:"total_page_num"`
	LeftHasMore  bool  `json:"left_has_more_page"`
	RightHasMore bool  `json:"right_has_more_page"`
}

// Window 以当前页为中心，左右各取 around 个页码；更远的页码以 has_more 标记代替。
func (p Page) Window(around int) PageWindow {
	current, total := p.Number, p.TotalPages
	w := PageWindow{CurrentPage: current, TotalPages: total, LeftPages: []int{}, RightPages: []int{}}

	if current <= around+2 {
		for i := 1; i < current; i++ {
			w.LeftPages = append(w.LeftPages, i)
		}
	} else {
		w.LeftHasMore = true
		for i := current - around; i < current; i++ {
			w.LeftPages = append(w.LeftPages, i)
		}
	}

	if current >= total-around-1 {
		for i := current + 1; i <= total; i++ {
			w.RightPages = append(w.RightPages, i)
		}
	} else {
		w.RightHasMore = true
		for i := current + 1; i <= current+around; i++ {
			w.RightPages = append(w.RightPages, i)
		}
	}
	return w
}

// paginate 统计总数并取出第 page 页；超出范围的页码回退到最后一页。
// decorate 只作用于取数查询，用于追加排序与预加载。
func paginate(query *gorm.DB, page, perPage int, dest any, decorate func(*gorm.DB) *gorm.DB) (Page, error) {
	result := Page{PerPage: normalizePerPage(perPage, 10)}
	base := query.Session(&gorm.Session{})

	if err := base.Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	result.Number = clampPage(page, result.TotalPages)

	find := base.Limit(result.PerPage).Offset((result.Number - 1) * result.PerPage)
	if decorate != nil {
		find = decorate(find)
	}
	if err := find.Find(dest).Error; err != nil {
		return result, err
	}
	return result, nil
}

// 页码非正或越界时都落到最后一页。
func clampPage(page, totalPages int) int {
	if page < 1 || page > totalPages {
		return totalPages
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
