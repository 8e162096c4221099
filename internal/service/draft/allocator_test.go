package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllocateCode_NextSequence(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	existing := []string{
		"COST-24-001",
		"COST-24-002",
		"COST-24-003",
		"COST-23-099", // 往年编号不参与本年度扫描
		"INSP-24-010", // 其他前缀不参与扫描
	}

	code, err := AllocateCode(context.Background(), "COST", now, existing, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, "COST-24-004", code)
}

func TestAllocateCode_EmptyExisting(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	code, err := AllocateCode(context.Background(), "HW", now, nil, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, "HW-25-001", code)
}

func TestAllocateCode_RemoteCollisionRetry(t *testing.T) {
	// 前k个候选在远端已存在(例如软删除的记录)，应返回第k+1个候选，
	// 且恰好发起k+1次存在性探测
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	existing := []string{"COST-24-005"}

	const k = 3
	probes := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		probes++
		return probes <= k, nil
	}

	code, err := AllocateCode(context.Background(), "COST", now, existing, exists, 0)
	assert.NoError(t, err)
	assert.Equal(t, "COST-24-009", code) // 006,007,008被占用，落在009
	assert.Equal(t, k+1, probes)
}

func TestAllocateCode_Exhausted(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	exists := func(ctx context.Context, code string) (bool, error) {
		return true, nil // 远端永远冲突
	}

	_, err := AllocateCode(context.Background(), "COST", now, nil, exists, 10)
	assert.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestAllocateCode_ZeroPadding(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	code, err := AllocateCode(context.Background(), "EDU", now, []string{"EDU-24-009"}, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, "EDU-24-010", code)
}

func TestAllocateChildCode(t *testing.T) {
	existing := []string{
		"INSP-24-003-01",
		"INSP-24-003-02",
		"INSP-24-007-05", // 其他父记录的子编号不参与扫描
	}

	code := AllocateChildCode("INSP-24-003", existing)
	assert.Equal(t, "INSP-24-003-03", code)

	code = AllocateChildCode("INSP-24-009", existing)
	assert.Equal(t, "INSP-24-009-01", code)
}
