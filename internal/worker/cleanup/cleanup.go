// Package cleanup は未確認アップロードの自動削除ジョブを提供する。
// 署名付きPUT URLを発行したまま確認されなかったpending状態の教材
// メタデータを、TTL（デフォルト48時間）超過後に日次バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StalePendingDeleter はpending教材の一括削除を抽象化するインターフェース。
// repository.MaterialRepositoryの部分集合。
type StalePendingDeleter interface {
	DeleteStalePending(ctx context.Context, before time.Time) (int64, error)
}

// DeletionRecorder は削除件数のメトリクス記録インターフェース。
type DeletionRecorder interface {
	RecordStaleMaterialsDeleted(count int64)
}

// CleanupJob は確認されなかったアップロードの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	deleter    StalePendingDeleter
	recorder   DeletionRecorder
	logger     *slog.Logger
	PendingTTL time.Duration // pending状態の許容期間（デフォルト: 48時間）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// recorderはnilでもよい。デフォルトのTTLは48時間。
func NewCleanupJob(deleter StalePendingDeleter, recorder DeletionRecorder, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		deleter:    deleter,
		recorder:   recorder,
		logger:     logger,
		PendingTTL: 48 * time.Hour,
	}
}

// Run はTTLを超過したpending教材メタデータを削除する。
// オブジェクト本体はアップロードが確認されていないため存在しないか、
// ストレージ側のライフサイクルルールで破棄される。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()
	cutoff := start.Add(-j.PendingTTL)

	deletedCount, err := j.deleter.DeleteStalePending(ctx, cutoff)
	if err != nil {
		j.logger.Error("未確認アップロードのクリーンアップに失敗しました",
			slog.String("error", err.Error()),
			slog.Duration("pending_ttl", j.PendingTTL),
		)
		return fmt.Errorf("未確認アップロードのクリーンアップに失敗: %w", err)
	}

	if j.recorder != nil {
		j.recorder.RecordStaleMaterialsDeleted(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("未確認アップロードのクリーンアップが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Duration("pending_ttl", j.PendingTTL),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
