/**
 * 工具类:列表视图
 * @description: 内存集合的纯函数过滤/分页/行号计算。
 *               等值筛选以"전체"为哨兵值表示不过滤；排序按业务序号降序，
 *               新建记录始终浮在第一页顶部；行号跨页保持人类可读的降序编号
 * @func: Apply、ByField、ByYear、SortBySeqDesc、Page、RowNumber
 */
package listview

import (
	"sort"
	"time"
)

// FilterAll 筛选哨兵值，表示该筛选维度不生效
const FilterAll = "전체"

// Filter 单个筛选条件
type Filter[T any] func(T) bool

// ByField 等值筛选
// selected为空或哨兵值时筛选不生效
func ByField[T any](selected string, field func(T) string) Filter[T] {
	if selected == "" || selected == FilterAll {
		return func(T) bool { return true }
	}
	return func(item T) bool {
		return field(item) == selected
	}
}

// ByYear 年度筛选，从日期字段提取日历年后与选中年度比较
// selected为空或哨兵值时筛选不生效；日期为零值的记录不匹配任何年度
func ByYear[T any](selected string, date func(T) time.Time) Filter[T] {
	if selected == "" || selected == FilterAll {
		return func(T) bool { return true }
	}
	return func(item T) bool {
		d := date(item)
		if d.IsZero() {
			return false
		}
		return d.Format("2006") == selected
	}
}

// Apply 依次应用全部筛选条件，返回过滤后的子集
func Apply[T any](items []T, filters ...Filter[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, f := range filters {
			if !f(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// SortBySeqDesc 按单调递增的业务序号降序稳定排序
// 新建记录的序号最大，排序后始终出现在第一页顶部
func SortBySeqDesc[T any](items []T, seq func(T) uint64) {
	sort.SliceStable(items, func(i, j int) bool {
		return seq(items[i]) > seq(items[j])
	})
}

// Page 取出第pageIndex页(从0开始)的切片
func Page[T any](items []T, pageIndex, pageSize int) []T {
	if pageSize <= 0 || pageIndex < 0 {
		return nil
	}
	start := pageIndex * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// RowNumber 计算行展示编号
// 编号为 total - (pageIndex*pageSize + rowIndex)，翻页与筛选变化后仍保持降序连续
func RowNumber(total, pageIndex, pageSize, rowIndex int) int {
	return total - (pageIndex*pageSize + rowIndex)
}

// TotalPages 计算总页数
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
