package service

import (
	"context"
	"log/slog"
	"time"

	"rental-market/internal/cache"
	"rental-market/internal/database"
	"rental-market/internal/model"
	"rental-market/internal/store"
	"rental-market/internal/worker"
)

var countRentalsByDay = store.CountRentalsByDay

// MonthWindow 回傳 t 所在月份的 UTC 區間 [月初, 次月初)，同時限定年份
func MonthWindow(t time.Time) (from, to time.Time) {
	t = t.UTC()
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MonthlyReportKey 月報快取 key
func MonthlyReportKey(t time.Time) string {
	return "report:monthly:" + t.UTC().Format("2006-01")
}

// Reports 產生並快取每月每日租借數
type Reports struct {
	db    database.DB
	cache *cache.Typed[[]model.DailyCount]
	now   func() time.Time
}

func NewReports(db database.DB, c cache.Cache, ttl time.Duration) *Reports {
	return &Reports{
		db:    db,
		cache: cache.NewTyped[[]model.DailyCount](c, ttl),
		now:   timeNow,
	}
}

// Monthly 本月（含年份）每日租借數；快取失敗時直接查詢資料庫
func (r *Reports) Monthly(ctx context.Context) ([]model.DailyCount, error) {
	now := r.now()
	key := MonthlyReportKey(now)

	if rows, ok, err := r.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "report cache read failed", "key", key, "err", err)
	} else if ok {
		return rows, nil
	}

	from, to := MonthWindow(now)
	rows, err := countRentalsByDay(ctx, r.db, from, to)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, rows); err != nil {
		slog.WarnContext(ctx, "report cache write failed", "key", key, "err", err)
	}
	return rows, nil
}

// Invalidate 移除 t 所在月份的快取
func (r *Reports) Invalidate(ctx context.Context, t time.Time) error {
	return r.cache.Delete(ctx, MonthlyReportKey(t))
}

// InvalidateAsync 交由 worker pool 背景移除快取
func (r *Reports) InvalidateAsync(p worker.Pool, t time.Time) {
	p.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Invalidate(ctx, t); err != nil {
			slog.Warn("report cache invalidation failed", "month", t.UTC().Format("2006-01"), "err", err)
		}
	})
}
