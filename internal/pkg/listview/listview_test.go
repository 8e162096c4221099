package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID     uint64
	Team   string
	Status string
	Date   time.Time
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func sampleRows() []row {
	return []row{
		{ID: 1, Team: "보안팀", Status: "진행", Date: date(2023, 3, 1)},
		{ID: 2, Team: "보안팀", Status: "완료", Date: date(2024, 1, 15)},
		{ID: 3, Team: "운영팀", Status: "진행", Date: date(2024, 6, 20)},
		{ID: 4, Team: "운영팀", Status: "대기", Date: date(2025, 2, 2)},
	}
}

func TestApply_YearFilter(t *testing.T) {
	rows := sampleRows()

	got := Apply(rows, ByYear("2024", func(r row) time.Time { return r.Date }))
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "2024", r.Date.Format("2006"))
	}
}

func TestApply_SentinelDisablesFilter(t *testing.T) {
	rows := sampleRows()

	got := Apply(rows,
		ByYear(FilterAll, func(r row) time.Time { return r.Date }),
		ByField(FilterAll, func(r row) string { return r.Team }),
	)
	assert.Len(t, got, len(rows))
}

func TestApply_CombinedFilters(t *testing.T) {
	rows := sampleRows()

	got := Apply(rows,
		ByField("운영팀", func(r row) string { return r.Team }),
		ByField("진행", func(r row) string { return r.Status }),
	)
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].ID)
}

func TestSortBySeqDesc_NewestFirst(t *testing.T) {
	rows := sampleRows()
	SortBySeqDesc(rows, func(r row) uint64 { return r.ID })

	assert.Equal(t, uint64(4), rows[0].ID)
	assert.Equal(t, uint64(1), rows[len(rows)-1].ID)
}

func TestRowNumber_SecondPage(t *testing.T) {
	// 25条过滤结果，每页10条，第二页(pageIndex=1)首行编号应为 25-(1*10+0)=15
	assert.Equal(t, 15, RowNumber(25, 1, 10, 0))
	assert.Equal(t, 14, RowNumber(25, 1, 10, 1))
	// 第一页首行编号等于总数
	assert.Equal(t, 25, RowNumber(25, 0, 10, 0))
	// 最后一页末行编号为1
	assert.Equal(t, 1, RowNumber(25, 2, 10, 4))
}

func TestPage_Bounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Page(items, 0, 2))
	assert.Equal(t, []int{5}, Page(items, 2, 2))
	assert.Nil(t, Page(items, 3, 2))
	assert.Nil(t, Page(items, 0, 0))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
}
