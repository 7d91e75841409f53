// Package workers содержит ограниченный пул воркеров для поэлементной обработки.
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PoolSize вычисляет размер пула: не больше числа элементов и не меньше 1
// Если configured <= 0, используется runtime.NumCPU()
func PoolSize(configured, items int) int {
	size := configured
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if items > 0 && size > items {
		size = items
	}
	if size < 1 {
		size = 1
	}
	return size
}

// ForEach вызывает fn для каждого индекса [0, n) на ограниченном пуле
//
// Результаты fn должна записывать в свой слот по индексу, тогда порядок не зависит
// от планирования горутин. Первая ошибка или отмена ctx останавливает раздачу
// новых индексов; ForEach возвращает эту ошибку.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(PoolSize(workers, n))

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, idx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Отмена могла произойти до запуска первой задачи
	return ctx.Err()
}
