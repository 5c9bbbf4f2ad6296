package biz

// Paginate 返回第 page 页（从 1 开始）的 size 条记录。
// skip = (page-1)*size，小于 0 时按 0 处理；size <= 0 时返回空。
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return []T{}
	}

	skip := 0
	if page > 1 {
		if page-1 > len(items)/size {
			return []T{}
		}
		skip = (page - 1) * size
	}
	if skip >= len(items) {
		return []T{}
	}

	end := skip + size
	if end > len(items) || end < skip {
		end = len(items)
	}
	return items[skip:end]
}
