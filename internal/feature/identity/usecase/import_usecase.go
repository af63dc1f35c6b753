package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ImportReport は一括インポートの結果件数です。
type ImportReport struct {
	Imported int
	Failed   int
}

// ImportAll はsrcから1行1レコードで読み込み、Registry経由でインポートします。
// 空行と'#'で始まる行はスキップします。
// 失敗したレコードはログに残して件数に数え、次の行へ進みます。
func (r *Registry) ImportAll(ctx context.Context, src io.Reader) (ImportReport, error) {
	var report ImportReport

	scanner := bufio.NewScanner(src)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record := strings.TrimSpace(scanner.Text())
		if record == "" || strings.HasPrefix(record, "#") {
			continue
		}
		u, err := r.Import(ctx, record)
		if err != nil {
			report.Failed++
			r.log.Warn("import record failed", "line", line, "error", err)
			continue
		}
		report.Imported++
		r.log.Debug("import record ok", "line", line, "login", u.Login())
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read import source: %w", err)
	}
	r.log.Info("import finished", "imported", report.Imported, "failed", report.Failed)
	return report, nil
}
