package posixtime

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Scheduler — граница с планировщиком вызывающего рантайма.
// Detach отпускает вызывающую логическую нить на время блокирующего вызова,
// Attach возвращает её обратно. Вызовы всегда парные, Attach — после Detach.
type Scheduler interface {
	Detach()
	Attach()
}

// NopScheduler — для обычного Go-кода: планировщик Go сам паркует горутину
// на время системного вызова.
type NopScheduler struct{}

// Detach ничего не делает.
func (NopScheduler) Detach() {}

// Attach ничего не делает.
func (NopScheduler) Attach() {}

// RuntimeLock — кооперативная блокировка исполнения: код рантайма в каждый момент
// выполняет только логическая нить, которая её держит. Движок отпускает
// блокировку на время блокирующих вызовов, чтобы остальные нити не простаивали.
//
// Как Scheduler блокировка требует, чтобы вызывающий её держал: Detach без
// предшествующего Enter паникует ("semaphore: released more than held").
type RuntimeLock struct {
	sem *semaphore.Weighted
}

// NewRuntimeLock создаёт свободную блокировку.
func NewRuntimeLock() *RuntimeLock {
	return &RuntimeLock{sem: semaphore.NewWeighted(1)}
}

// Enter захватывает блокировку для вызывающей нити.
func (l *RuntimeLock) Enter(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Leave отпускает блокировку.
func (l *RuntimeLock) Leave() {
	l.sem.Release(1)
}

// Run выполняет fn под блокировкой.
func (l *RuntimeLock) Run(ctx context.Context, fn func() error) error {
	if err := l.Enter(ctx); err != nil {
		return err
	}
	defer l.Leave()
	return fn()
}

// Detach реализует Scheduler: отпускает блокировку. Вызывающий должен её держать.
func (l *RuntimeLock) Detach() {
	l.Leave()
}

// Attach реализует Scheduler: ждёт, пока блокировку освободят, и захватывает её.
func (l *RuntimeLock) Attach() {
	// С context.Background Acquire ошибку не возвращает.
	l.sem.Acquire(context.Background(), 1)
}
