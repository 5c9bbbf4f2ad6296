package data

// indexOf 返回第一个 Id 匹配的记录下标，不存在时返回 -1
func indexOf[T any](items []T, id int, idOf func(T) int) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// maxID 集合中的最大 Id，空集合返回 0
func maxID[T any](items []T, idOf func(T) int) int {
	highest := 0
	for _, item := range items {
		if id := idOf(item); id > highest {
			highest = id
		}
	}
	return highest
}

// groupByID 按键分组，组内保持原顺序
func groupByID[T any](items []T, keyOf func(T) int) map[int][]T {
	groups := make(map[int][]T, len(items))
	for _, item := range items {
		k := keyOf(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}
