/**
 * 草稿编辑:业务编号分配器
 * @description: 生成形如 PREFIX-YY-NNN 的唯一业务编号，子编号形如 PARENTCODE-NN
 * @func:
 *   - AllocateCode 父记录编号分配，内存扫描取最大序号+1，再用远端存在性探测避免冲突
 *   - AllocateChildCode 子条目编号分配，复用父编号作为前缀
 */
package draft

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExistsFunc 远端唯一性探针
// 必须覆盖全部记录，包括软删除/停用的行——这些行不在内存列表里，
// 但它们占用的编号依然不可复用
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// AllocateCode 分配下一个可用的业务编号
// 算法：取now的两位年份，扫描existing中匹配 PREFIX-YY-* 的条目，
// 解析末段序号取最大值(默认0)，候选为最大值+1并补零到3位。
// exists不为nil时循环探测远端：候选已存在则序号+1重新生成。
// maxProbes>0 时为探测上限，超限返回 ErrAllocationExhausted；<=0 不设上限。
// 无全局锁：两个并发会话可能拿到同一序号，以远端唯一索引兜底。
func AllocateCode(ctx context.Context, prefix string, now time.Time, existing []string, exists ExistsFunc, maxProbes int) (string, error) {
	yy := now.Format("06")
	codePrefix := fmt.Sprintf("%s-%s-", prefix, yy)

	maxSeq := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, codePrefix) {
			continue
		}
		if n, err := strconv.Atoi(code[len(codePrefix):]); err == nil && n > maxSeq {
			maxSeq = n
		}
	}

	seq := maxSeq + 1
	candidate := fmt.Sprintf("%s%03d", codePrefix, seq)
	if exists == nil {
		return candidate, nil
	}

	probes := 0
	for {
		probes++
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("编号存在性探测失败: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		if maxProbes > 0 && probes >= maxProbes {
			return "", ErrAllocationExhausted
		}
		seq++
		candidate = fmt.Sprintf("%s%03d", codePrefix, seq)
	}
}

// AllocateChildCode 分配子条目编号
// 复用父编号作为前缀，序号为2位：PARENTCODE-NN。
// 子编号只在父记录范围内扫描，不做远端探测
func AllocateChildCode(parentCode string, existing []string) string {
	childPrefix := parentCode + "-"

	maxSeq := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, childPrefix) {
			continue
		}
		if n, err := strconv.Atoi(code[len(childPrefix):]); err == nil && n > maxSeq {
			maxSeq = n
		}
	}

	return fmt.Sprintf("%s%02d", childPrefix, maxSeq+1)
}
